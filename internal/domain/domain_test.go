package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_SingleStreamingMessage(t *testing.T) {
	tr := NewTranscript(ModeChat)
	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, ModeChat.Greeting(), msgs[0].Text)

	tr.AddUser("I have a headache")
	bot, err := tr.BeginBot()
	require.NoError(t, err)
	assert.True(t, tr.Streaming())

	_, err = tr.BeginBot()
	assert.ErrorIs(t, err, ErrReplyInProgress)

	msg, err := tr.UpdateBot(bot.ID, "Rest", "considering causes", 1500*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []string{"considering causes"}, msg.Thinking)
	assert.Equal(t, 1500*time.Millisecond, msg.ThinkingTime)

	msg, err = tr.FinishBot(bot.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Rest", msg.Text)
	assert.False(t, msg.IsStreaming)
	assert.False(t, tr.Streaming())

	_, err = tr.UpdateBot(bot.ID, "changed", "", 0)
	assert.ErrorIs(t, err, ErrMessageFinished)

	_, err = tr.BeginBot()
	assert.NoError(t, err)
}

func TestTranscript_ResetAndRestore(t *testing.T) {
	tr := NewTranscript(ModeChat)
	tr.AddUser("hello")
	bot, err := tr.BeginBot()
	require.NoError(t, err)

	tr.Reset(ModeSymptomChecker)
	msgs := tr.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hello. I am the Symptom Checker. Please describe your main symptom.", msgs[0].Text)
	assert.Equal(t, ModeSymptomChecker, tr.Mode())

	_, err = tr.UpdateBot(bot.ID, "late", "", 0)
	assert.ErrorIs(t, err, ErrMessageNotFound)

	history := []ChatMessage{
		{ID: "h0", Text: "my knee hurts", Sender: SenderUser},
		{ID: "h1", Text: "Since when?", Sender: SenderBot},
	}
	tr.Restore(ModeChat, history)
	assert.Equal(t, history, tr.Messages())
}

func TestHealthProfile(t *testing.T) {
	var p HealthProfile
	assert.False(t, p.Completed())
	assert.True(t, p.BMI().IsZero())
	assert.Equal(t, "", p.BMICategory())

	require.NoError(t, p.Set("age", "34"))
	require.NoError(t, p.Set("gender", "female"))
	require.NoError(t, p.Set("height", "170"))
	require.NoError(t, p.Set("weight", "80"))
	require.NoError(t, p.Set("stress", "55"))

	assert.True(t, p.Completed())
	assert.True(t, decimal.RequireFromString("27.7").Equal(p.BMI()), p.BMI().String())
	assert.Equal(t, "Overweight", p.BMICategory())

	assert.ErrorIs(t, p.Set("age", "-1"), ErrInvalidProfileData)
	assert.ErrorIs(t, p.Set("weight", "heavy"), ErrInvalidProfileData)
	assert.ErrorIs(t, p.Set("stress", "101"), ErrInvalidProfileData)
	assert.ErrorIs(t, p.Set("shoe", "42"), ErrInvalidProfileData)

	snap := p.Snapshot()
	assert.Equal(t, 34, snap.Age)
	assert.Equal(t, 27.7, snap.BMI)
	assert.Equal(t, "Overweight", snap.BMICategory)
}

func TestModels(t *testing.T) {
	m, ok := LookupModel("gemini-2.5-flash")
	require.True(t, ok)
	assert.True(t, m.Thinking)
	assert.False(t, m.Premium)

	m, ok = LookupModel("gemini-2.0-flash-thinking-exp")
	require.True(t, ok)
	assert.True(t, m.Thinking)
	assert.True(t, m.Premium)

	m, ok = LookupModel("gemini-2.0-pro-custom")
	assert.False(t, ok)
	assert.True(t, m.Premium)
	assert.False(t, m.Thinking)

	lite := &User{Tier: TierLite}
	pro := &User{Tier: TierPro}
	free := &User{Tier: TierFree}
	assert.False(t, lite.CanUseModel(m))
	assert.True(t, pro.CanUseModel(m))
	assert.False(t, free.CanUseModel(AIModel{ID: "gemini-flash-lite-latest"}))
}

func TestDoctorFilters(t *testing.T) {
	d := Doctor{
		Specialty:      "Cardiologist",
		Subspecialties: []string{"Interventional Cardiology"},
		Location:       "Boston",
		Hospital:       "General Hospital",
		Experience:     12,
	}

	assert.True(t, DoctorFilters{}.Match(d))
	assert.True(t, DoctorFilters{Specialty: "cardiologist"}.Match(d))
	assert.True(t, DoctorFilters{Specialty: "interventional"}.Match(d))
	assert.False(t, DoctorFilters{Specialty: "Dermatologist"}.Match(d))
	assert.True(t, DoctorFilters{Location: "general"}.Match(d))
	assert.False(t, DoctorFilters{Location: "Chicago"}.Match(d))
	assert.True(t, DoctorFilters{MinExperience: 12}.Match(d))
	assert.False(t, DoctorFilters{MinExperience: 13}.Match(d))
}
