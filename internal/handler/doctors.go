package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/domain"
	tg "github.com/set-night/healthconnect/internal/telegram"
)

// parseDoctorFilters reads "[specialty] [location...] [min years]". A
// specialty of "any" or "-" matches every specialty.
func parseDoctorFilters(args string) domain.DoctorFilters {
	var f domain.DoctorFilters
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return f
	}
	if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil && n >= 0 {
		f.MinExperience = n
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return f
	}
	if s := parts[0]; s != "-" && !strings.EqualFold(s, "any") {
		f.Specialty = s
	}
	f.Location = strings.Join(parts[1:], " ")
	return f
}

func (h *Handler) handleDoctors(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, chatID, ok := messageUser(ctx, update)
	if !ok {
		return
	}
	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	args := commandArgs(update.Message.Text)
	if args == "" {
		doctors, err := h.doctorService.Recommend(ctx, user)
		if err != nil {
			h.fail(ctx, b, chatID, "recommend doctors", err)
			return
		}
		if len(doctors) == 0 && !user.Profile.Completed() {
			h.reply(ctx, b, chatID, errorText(domain.ErrProfileIncomplete)+"\n\nOr search directly: /doctors cardiologist boston 10")
			return
		}
		h.reply(ctx, b, chatID, renderDoctors("Recommended for you", doctors))
		return
	}

	doctors, err := h.doctorService.List(ctx, parseDoctorFilters(args))
	if err != nil {
		h.fail(ctx, b, chatID, "list doctors", err)
		return
	}
	h.reply(ctx, b, chatID, renderDoctors("Doctors", doctors))
}
