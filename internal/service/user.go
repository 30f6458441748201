package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/repository/sqlc"
)

type UserService struct {
	db      *pgxpool.Pool
	queries *sqlc.Queries
	cfg     *config.Config
}

func NewUserService(db *pgxpool.Pool, queries *sqlc.Queries, cfg *config.Config) *UserService {
	return &UserService{db: db, queries: queries, cfg: cfg}
}

// FindOrCreate loads the user or registers them with the configured defaults.
// The bool reports whether the user was created.
func (s *UserService) FindOrCreate(ctx context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, bool, error) {
	row, err := s.queries.GetUserByTelegramID(ctx, telegramID)
	if err == nil {
		return rowToUser(row), false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	tier, ok := domain.ParseTier(s.cfg.DefaultTier)
	if !ok {
		tier = domain.TierFree
	}

	row, err = s.queries.CreateUser(ctx, sqlc.CreateUserParams{
		TelegramID:    telegramID,
		FirstName:     firstName,
		Username:      username,
		IsAdmin:       isAdmin,
		Tier:          string(tier),
		ApiKey:        s.cfg.DefaultAPIKey,
		SelectedModel: s.cfg.DefaultModel,
	})
	if err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return rowToUser(row), true, nil
}

func (s *UserService) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	row, err := s.queries.GetUserByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return rowToUser(row), nil
}

func (s *UserService) UpdateInfo(ctx context.Context, userID int64, firstName, username string) error {
	return s.queries.UpdateUserInfo(ctx, sqlc.UpdateUserInfoParams{
		ID:        userID,
		FirstName: firstName,
		Username:  username,
	})
}

func (s *UserService) UpdateLastInteraction(ctx context.Context, userID int64) error {
	return s.queries.UpdateUserLastInteraction(ctx, userID)
}

// SetTier changes the user's tier. A premium model the new tier cannot use
// is swapped for the default model in the same transaction.
func (s *UserService) SetTier(ctx context.Context, user *domain.User, tier domain.Tier) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)

	if err := qtx.UpdateUserTier(ctx, sqlc.UpdateUserTierParams{ID: user.ID, Tier: string(tier)}); err != nil {
		return fmt.Errorf("update tier: %w", err)
	}

	model := user.SelectedModel
	if m, _ := domain.LookupModel(model); m.Premium && tier != domain.TierPro {
		model = s.cfg.DefaultModel
		if err := qtx.UpdateUserModel(ctx, sqlc.UpdateUserModelParams{ID: user.ID, SelectedModel: model}); err != nil {
			return fmt.Errorf("reset model: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	user.Tier = tier
	user.SelectedModel = model
	return nil
}

func (s *UserService) SetAPIKey(ctx context.Context, user *domain.User, key string) error {
	if err := s.queries.UpdateUserAPIKey(ctx, sqlc.UpdateUserAPIKeyParams{ID: user.ID, ApiKey: key}); err != nil {
		return fmt.Errorf("update api key: %w", err)
	}
	user.APIKey = key
	return nil
}

func (s *UserService) SetEmail(ctx context.Context, user *domain.User, email string) error {
	if err := s.queries.UpdateUserEmail(ctx, sqlc.UpdateUserEmailParams{ID: user.ID, Email: email}); err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	user.Email = email
	return nil
}

func (s *UserService) SetModel(ctx context.Context, user *domain.User, model string) error {
	if err := s.queries.UpdateUserModel(ctx, sqlc.UpdateUserModelParams{ID: user.ID, SelectedModel: model}); err != nil {
		return fmt.Errorf("update model: %w", err)
	}
	user.SelectedModel = model
	return nil
}

func (s *UserService) SetChatMode(ctx context.Context, user *domain.User, mode domain.ChatMode) error {
	if err := s.queries.UpdateUserChatMode(ctx, sqlc.UpdateUserChatModeParams{ID: user.ID, ChatMode: string(mode)}); err != nil {
		return fmt.Errorf("update chat mode: %w", err)
	}
	user.ChatMode = mode
	return nil
}

func (s *UserService) SaveProfile(ctx context.Context, user *domain.User, profile domain.HealthProfile) error {
	if err := s.queries.UpdateUserProfile(ctx, profileParams(user.ID, profile)); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	user.Profile = profile
	return nil
}

type UserStats struct {
	Total     int64
	Active24h int64
	ByTier    map[domain.Tier]int64
}

func (s *UserService) Stats(ctx context.Context) (UserStats, error) {
	var stats UserStats

	total, err := s.queries.CountTotalUsers(ctx)
	if err != nil {
		return stats, fmt.Errorf("count users: %w", err)
	}
	stats.Total = total

	active, err := s.queries.CountActiveUsersSince(ctx, timeToPgTimestamptz(time.Now().Add(-24*time.Hour)))
	if err != nil {
		return stats, fmt.Errorf("count active users: %w", err)
	}
	stats.Active24h = active

	rows, err := s.queries.CountUsersByTier(ctx)
	if err != nil {
		return stats, fmt.Errorf("count users by tier: %w", err)
	}
	stats.ByTier = make(map[domain.Tier]int64, len(rows))
	for _, r := range rows {
		stats.ByTier[domain.Tier(r.Tier)] = r.Count
	}
	return stats, nil
}
