package domain

import "strings"

type Doctor struct {
	ID             string   `json:"_id"`
	Name           string   `json:"name"`
	Specialty      string   `json:"specialty"`
	Subspecialties []string `json:"subspecialties,omitempty"`
	Location       string   `json:"location"`
	Hospital       string   `json:"hospital"`
	Experience     int      `json:"experience"`
	Rating         float64  `json:"rating"`
}

type DoctorFilters struct {
	Specialty     string
	Location      string
	MinExperience int
}

// Match reports whether the doctor passes every non-empty filter.
func (f DoctorFilters) Match(d Doctor) bool {
	if f.Specialty != "" {
		want := strings.ToLower(f.Specialty)
		ok := strings.ToLower(d.Specialty) == want
		for _, sub := range d.Subspecialties {
			if strings.Contains(strings.ToLower(sub), want) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.Location != "" {
		want := strings.ToLower(f.Location)
		if !strings.Contains(strings.ToLower(d.Location), want) &&
			!strings.Contains(strings.ToLower(d.Hospital), want) {
			return false
		}
	}
	if f.MinExperience > 0 && d.Experience < f.MinExperience {
		return false
	}
	return true
}
