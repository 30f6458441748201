package service

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/repository/sqlc"
)

// pgTimestamptzToTime converts pgtype.Timestamptz to time.Time.
func pgTimestamptzToTime(ts pgtype.Timestamptz) time.Time {
	if ts.Valid {
		return ts.Time
	}
	return time.Time{}
}

// timeToPgTimestamptz converts time.Time to pgtype.Timestamptz.
func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}

// rowToUser converts a sqlc row to a domain.User.
func rowToUser(row sqlc.User) *domain.User {
	mode, ok := domain.ParseChatMode(row.ChatMode)
	if !ok {
		mode = domain.ModeChat
	}
	tier, ok := domain.ParseTier(row.Tier)
	if !ok {
		tier = domain.TierFree
	}
	return &domain.User{
		ID:            row.ID,
		TelegramID:    row.TelegramID,
		IsAdmin:       row.IsAdmin,
		FirstName:     row.FirstName,
		Username:      row.Username,
		Email:         row.Email,
		Tier:          tier,
		APIKey:        row.ApiKey,
		SelectedModel: row.SelectedModel,
		ChatMode:      mode,
		Profile: domain.HealthProfile{
			Age:            int(row.Age),
			Gender:         row.Gender,
			Height:         row.Height,
			Weight:         row.Weight,
			BloodGlucose:   row.BloodGlucose,
			SleepScore:     int(row.SleepScore),
			ExerciseScore:  int(row.ExerciseScore),
			StressScore:    int(row.StressScore),
			HydrationScore: int(row.HydrationScore),
		},
		LastInteraction: pgTimestamptzToTime(row.LastInteraction),
		CreatedAt:       pgTimestamptzToTime(row.CreatedAt),
		UpdatedAt:       pgTimestamptzToTime(row.UpdatedAt),
	}
}

func profileParams(userID int64, p domain.HealthProfile) sqlc.UpdateUserProfileParams {
	return sqlc.UpdateUserProfileParams{
		ID:             userID,
		Age:            int32(p.Age),
		Gender:         p.Gender,
		Height:         p.Height,
		Weight:         p.Weight,
		BloodGlucose:   p.BloodGlucose,
		SleepScore:     int32(p.SleepScore),
		ExerciseScore:  int32(p.ExerciseScore),
		StressScore:    int32(p.StressScore),
		HydrationScore: int32(p.HydrationScore),
	}
}
