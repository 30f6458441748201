package handler

import (
	"github.com/go-telegram/bot"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/service"
	"github.com/set-night/healthconnect/internal/telegram"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot              *bot.Bot
	cfg              *config.Config
	userService      *service.UserService
	chatService      *service.ChatService
	healthService    *service.HealthService
	nutritionService *service.NutritionService
	wellnessService  *service.WellnessService
	doctorService    *service.DoctorService
	tgLogger         *telegram.TelegramLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot              *bot.Bot
	Cfg              *config.Config
	UserService      *service.UserService
	ChatService      *service.ChatService
	HealthService    *service.HealthService
	NutritionService *service.NutritionService
	WellnessService  *service.WellnessService
	DoctorService    *service.DoctorService
	TgLogger         *telegram.TelegramLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:              deps.Bot,
		cfg:              deps.Cfg,
		userService:      deps.UserService,
		chatService:      deps.ChatService,
		healthService:    deps.HealthService,
		nutritionService: deps.NutritionService,
		wellnessService:  deps.WellnessService,
		doctorService:    deps.DoctorService,
		tgLogger:         deps.TgLogger,
	}
}
