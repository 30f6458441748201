package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users       map[int64]*domain.User
	err         error
	infoUpdates int
	touches     int
}

func (f *fakeUsers) FindOrCreate(_ context.Context, telegramID int64, firstName, username string, isAdmin bool) (*domain.User, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	if u, ok := f.users[telegramID]; ok {
		return u, false, nil
	}
	u := &domain.User{ID: telegramID * 10, TelegramID: telegramID, FirstName: firstName, Username: username, IsAdmin: isAdmin}
	f.users[telegramID] = u
	return u, true, nil
}

func (f *fakeUsers) UpdateInfo(context.Context, int64, string, string) error {
	f.infoUpdates++
	return nil
}

func (f *fakeUsers) UpdateLastInteraction(context.Context, int64) error {
	f.touches++
	return nil
}

type admins []int64

func (a admins) IsAdmin(id int64) bool {
	for _, x := range a {
		if x == id {
			return true
		}
	}
	return false
}

func messageFrom(id int64, first, username, text string) *models.Update {
	return &models.Update{Message: &models.Message{
		Chat: models.Chat{ID: id},
		From: &models.User{ID: id, FirstName: first, Username: username},
		Text: text,
	}}
}

func TestUserLoader(t *testing.T) {
	store := &fakeUsers{users: map[int64]*domain.User{}}
	var registered []int64
	mw := UserLoader(store, admins{7}, func(_ context.Context, u *domain.User) {
		registered = append(registered, u.TelegramID)
	})

	var seen *domain.User
	h := mw(func(ctx context.Context, _ *bot.Bot, _ *models.Update) { seen = GetUser(ctx) })

	h(context.Background(), nil, messageFrom(7, "Ann", "ann", "hi"))
	require.NotNil(t, seen)
	assert.True(t, seen.IsAdmin)
	assert.Equal(t, []int64{7}, registered)
	assert.Equal(t, 0, store.infoUpdates)

	h(context.Background(), nil, messageFrom(7, "Anna", "ann", "hi"))
	assert.Equal(t, "Anna", seen.FirstName)
	assert.Equal(t, []int64{7}, registered)
	assert.Equal(t, 1, store.infoUpdates)
	assert.Equal(t, 2, store.touches)
}

func TestUserLoader_ErrorPassesThrough(t *testing.T) {
	store := &fakeUsers{err: errors.New("db down")}
	called := false
	h := UserLoader(store, admins{}, nil)(func(ctx context.Context, _ *bot.Bot, _ *models.Update) {
		called = true
		assert.Nil(t, GetUser(ctx))
	})

	h(context.Background(), nil, messageFrom(1, "A", "", "hi"))
	assert.True(t, called)
}

func TestLimiter(t *testing.T) {
	l := NewLimiter(60, 2)
	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))
	assert.True(t, l.Allow(2))
}

func TestDescribe(t *testing.T) {
	info := describe(messageFrom(5, "A", "", "/model gemini-2.5-flash"))
	assert.Equal(t, updateInfo{kind: "message", command: "/model", chatID: 5, userID: 5}, info)

	cb := &models.Update{CallbackQuery: &models.CallbackQuery{
		From: models.User{ID: 9},
		Data: "model:gemini-2.5-flash",
	}}
	info = describe(cb)
	assert.Equal(t, "callback_query", info.kind)
	assert.Equal(t, "model", info.command)
	assert.Equal(t, int64(9), info.userID)
}
