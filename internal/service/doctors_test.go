package service

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/set-night/healthconnect/internal/backend"
	"github.com/set-night/healthconnect/internal/domain"
	"github.com/set-night/healthconnect/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDoctors = []domain.Doctor{
	{ID: "d1", Name: "Dr. Gray", Specialty: "Cardiologist", Location: "Boston", Hospital: "General", Experience: 20, Rating: 4.9},
	{ID: "d2", Name: "Dr. Lee", Specialty: "Endocrinologist", Location: "Austin", Hospital: "St. Mary", Experience: 8, Rating: 4.2},
	{ID: "d3", Name: "Dr. Cho", Specialty: "Psychiatrist", Location: "Boston", Hospital: "Mind Care", Experience: 12, Rating: 4.5},
	{ID: "d4", Name: "Dr. Park", Specialty: "Nutritionist", Subspecialties: []string{"Sports nutrition"}, Location: "Denver", Hospital: "Peak", Experience: 5, Rating: 4.7},
	{ID: "d5", Name: "Dr. Ames", Specialty: "General Practitioner", Location: "Austin", Hospital: "Central", Experience: 3, Rating: 3.9},
}

const doctorsJSON = `{"allDoctor":[
	{"_id":"d1","name":"Dr. Gray","specialty":"Cardiologist","location":"Boston","hospital":"General","experience":20,"rating":4.9},
	{"_id":"d2","name":"Dr. Lee","specialty":"Endocrinologist","location":"Austin","hospital":"St. Mary","experience":8,"rating":4.2},
	{"_id":"d3","name":"Dr. Cho","specialty":"Psychiatrist","location":"Boston","hospital":"Mind Care","experience":12,"rating":4.5},
	{"_id":"d4","name":"Dr. Park","specialty":"Nutritionist","subspecialties":["Sports nutrition"],"location":"Denver","hospital":"Peak","experience":5,"rating":4.7},
	{"_id":"d5","name":"Dr. Ames","specialty":"General Practitioner","location":"Austin","hospital":"Central","experience":3,"rating":3.9}
]}`

func ids(doctors []domain.Doctor) []string {
	out := make([]string, 0, len(doctors))
	for _, d := range doctors {
		out = append(out, d.ID)
	}
	return out
}

func TestRankDoctors(t *testing.T) {
	tests := []struct {
		name    string
		profile domain.HealthProfile
		want    []string
	}{
		{
			name:    "healthy profile gets top rated",
			profile: completeProfile(),
			want:    []string{"d1", "d4", "d3"},
		},
		{
			name: "obese with high glucose and stress",
			profile: func() domain.HealthProfile {
				p := completeProfile()
				p.Weight = decimal.NewFromInt(110)
				p.BloodGlucose = decimal.NewFromInt(140)
				p.StressScore = 40
				return p
			}(),
			want: []string{"d2", "d3", "d1"},
		},
		{
			name: "high glucose only",
			profile: func() domain.HealthProfile {
				p := completeProfile()
				p.BloodGlucose = decimal.NewFromInt(126)
				return p
			}(),
			want: []string{"d2", "d1", "d4"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(rankDoctors(tt.profile, testDoctors)))
		})
	}

	assert.Empty(t, rankDoctors(completeProfile(), nil))
}

func newDoctorFixture(t *testing.T, recommend http.HandlerFunc) (*DoctorService, *atomic.Int32) {
	t.Helper()
	var fetches atomic.Int32
	routes := map[string]http.HandlerFunc{
		backend.PathAllDoctors: func(w http.ResponseWriter, r *http.Request) {
			fetches.Add(1)
			fmt.Fprint(w, doctorsJSON)
		},
	}
	if recommend != nil {
		routes[backend.PathDoctorRecommendation] = recommend
	}
	client, _ := newRouteClient(t, routes)
	return NewDoctorService(client, repository.NewMemoryKV()), &fetches
}

func TestDoctorList_FiltersAndCaches(t *testing.T) {
	svc, fetches := newDoctorFixture(t, nil)
	ctx := context.Background()

	got, err := svc.List(ctx, domain.DoctorFilters{Location: "boston"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d3"}, ids(got))

	got, err = svc.List(ctx, domain.DoctorFilters{Specialty: "nutrition"})
	require.NoError(t, err)
	assert.Equal(t, []string{"d4"}, ids(got))

	got, err = svc.List(ctx, domain.DoctorFilters{MinExperience: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"d1", "d3"}, ids(got))

	assert.Equal(t, int32(1), fetches.Load())
}

func TestDoctorRecommend(t *testing.T) {
	ctx := context.Background()

	t.Run("incomplete profile", func(t *testing.T) {
		svc, fetches := newDoctorFixture(t, nil)
		got, err := svc.Recommend(ctx, paidUser())
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.Equal(t, int32(0), fetches.Load())
	})

	t.Run("backend ids mapped to directory", func(t *testing.T) {
		svc, _ := newDoctorFixture(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":["d5",7,"unknown","d2"]}`)
		})
		user := paidUser()
		user.Profile = completeProfile()

		got, err := svc.Recommend(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, []string{"d5", "d2"}, ids(got))
	})

	t.Run("no usable ids falls back to ranking", func(t *testing.T) {
		svc, _ := newDoctorFixture(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"data":["nobody"]}`)
		})
		user := paidUser()
		user.Profile = completeProfile()

		got, err := svc.Recommend(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, []string{"d1", "d4", "d3"}, ids(got))
	})

	t.Run("backend failure falls back to ranking", func(t *testing.T) {
		svc, _ := newDoctorFixture(t, statusReply(http.StatusInternalServerError))
		user := paidUser()
		user.Profile = completeProfile()

		got, err := svc.Recommend(ctx, user)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("no api key ranks locally", func(t *testing.T) {
		svc, _ := newDoctorFixture(t, nil)
		user := paidUser()
		user.APIKey = ""
		user.Profile = completeProfile()
		user.Profile.StressScore = 30

		got, err := svc.Recommend(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, []string{"d3", "d1", "d4"}, ids(got))
	})
}
