package geo

import (
	"testing"

	"github.com/imcbsglobal/task-webapp-backend/internal/apperrors"
)

func TestParseCoordinates(t *testing.T) {
	cases := []struct {
		name     string
		lat, lng string
		wantErr  bool
	}{
		{"plain", "9.9312", "76.2673", false},
		{"whitespace trimmed", " 9.9312 ", " 76.2673 ", false},
		{"negative in range", "-89.9", "-179.9", false},
		{"boundaries", "90", "180", false},
		{"latitude over", "90.0001", "0", true},
		{"latitude under", "-91", "0", true},
		{"longitude over", "0", "181", true},
		{"longitude under", "0", "-180.5", true},
		{"latitude not numeric", "north", "0", true},
		{"longitude not numeric", "0", "east", true},
		{"empty", "", "", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lat, lng, err := ParseCoordinates(c.lat, c.lng)
			if c.wantErr {
				if !apperrors.IsValidation(err) {
					t.Fatalf("err = %v, want validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCoordinates: %v", err)
			}
			if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
				t.Errorf("parsed out of range: %v,%v", lat, lng)
			}
		})
	}
}
