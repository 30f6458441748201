package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/set-night/healthconnect/internal/backend"
	"github.com/set-night/healthconnect/internal/config"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/shopspring/decimal"
)

const doctorsKey = "allDoctor"

// DoctorService serves the doctor directory from the key-value store,
// refreshing it from the backend once the cached copy expires.
type DoctorService struct {
	client *backend.Client
	kv     KeyValue
}

func NewDoctorService(client *backend.Client, kv KeyValue) *DoctorService {
	return &DoctorService{client: client, kv: kv}
}

func (s *DoctorService) all(ctx context.Context) ([]domain.Doctor, error) {
	if raw, ok, err := s.kv.Get(ctx, doctorsKey); err != nil {
		slog.Warn("read cached doctors", "error", err)
	} else if ok {
		var doctors []domain.Doctor
		if err := json.Unmarshal([]byte(raw), &doctors); err == nil {
			return doctors, nil
		}
	}

	doctors, err := s.client.AllDoctors(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(doctors)
	if err != nil {
		return nil, fmt.Errorf("encode doctors: %w", err)
	}
	if err := s.kv.Set(ctx, doctorsKey, string(raw), config.DoctorCacheDuration); err != nil {
		slog.Warn("cache doctors", "error", err)
	}
	return doctors, nil
}

// List returns the doctors matching filters, in directory order.
func (s *DoctorService) List(ctx context.Context, filters domain.DoctorFilters) ([]domain.Doctor, error) {
	doctors, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Doctor, 0, len(doctors))
	for _, d := range doctors {
		if filters.Match(d) {
			out = append(out, d)
		}
	}
	return out, nil
}

// Recommend picks doctors for the user's profile. Users with an API key get
// the backend's choice; otherwise, or when the backend yields nothing usable,
// doctors are ranked locally. An incomplete profile yields no doctors.
func (s *DoctorService) Recommend(ctx context.Context, user *domain.User) ([]domain.Doctor, error) {
	if !user.Profile.Completed() {
		return []domain.Doctor{}, nil
	}
	doctors, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	if !user.HasAPIKey() {
		return rankDoctors(user.Profile, doctors), nil
	}

	ids, err := s.client.DoctorRecommendations(ctx, recommendationSnapshot(user.Profile))
	if err != nil {
		slog.Warn("doctor recommendations", "error", err, "user_id", user.TelegramID)
		return rankDoctors(user.Profile, doctors), nil
	}

	byID := make(map[string]domain.Doctor, len(doctors))
	for _, d := range doctors {
		byID[d.ID] = d
	}
	picked := make([]domain.Doctor, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			picked = append(picked, d)
		}
	}
	if len(picked) == 0 {
		return rankDoctors(user.Profile, doctors), nil
	}
	return picked, nil
}

func recommendationSnapshot(p domain.HealthProfile) domain.HealthSnapshot {
	snap := p.Snapshot()
	if snap.Gender == "" {
		snap.Gender = "Not specified"
	}
	if snap.BMI == 0 {
		snap.BMI = 24
	}
	if snap.BMICategory == "" {
		snap.BMICategory = "Normal"
	}
	if snap.BloodGlucose == 0 {
		snap.BloodGlucose = 100
	}
	return snap
}

// rankDoctors suggests specialists for the profile's risk factors and tops
// the list up with the best-rated doctors.
func rankDoctors(p domain.HealthProfile, doctors []domain.Doctor) []domain.Doctor {
	var out []domain.Doctor
	picked := func(d domain.Doctor) bool {
		return slices.ContainsFunc(out, func(o domain.Doctor) bool { return o.ID == d.ID })
	}
	first := func(specialties ...string) (domain.Doctor, bool) {
		i := slices.IndexFunc(doctors, func(d domain.Doctor) bool {
			return slices.Contains(specialties, d.Specialty)
		})
		if i < 0 {
			return domain.Doctor{}, false
		}
		return doctors[i], true
	}

	if cat := p.BMICategory(); cat == "Overweight" || cat == "Obese" {
		if d, ok := first("Nutritionist", "Endocrinologist"); ok {
			out = append(out, d)
		}
	}
	if p.BloodGlucose.GreaterThan(decimal.NewFromInt(125)) {
		if d, ok := first("Endocrinologist"); ok && !picked(d) {
			out = append(out, d)
		}
	}
	if p.StressScore > 0 && p.StressScore < 60 {
		if d, ok := first("Psychiatrist"); ok && !picked(d) {
			out = append(out, d)
		}
	}

	if len(out) < config.DoctorRecommendationMin {
		rest := make([]domain.Doctor, 0, len(doctors))
		for _, d := range doctors {
			if !picked(d) {
				rest = append(rest, d)
			}
		}
		sort.SliceStable(rest, func(i, j int) bool { return rest[i].Rating > rest[j].Rating })
		need := config.DoctorRecommendationMin - len(out)
		if need > len(rest) {
			need = len(rest)
		}
		out = append(out, rest[:need]...)
	}
	return out
}
