// Package geo validates the coordinate strings the mobile clients send.
package geo

import (
	"strconv"
	"strings"

	"github.com/imcbsglobal/task-webapp-backend/internal/apperrors"
)

// ParseCoordinates parses a latitude/longitude pair and enforces the WGS84
// ranges. Inputs are strings because the clients send both quoted and bare
// numbers.
func ParseCoordinates(latRaw, lngRaw string) (float64, float64, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	if err != nil {
		return 0, 0, apperrors.Validation("latitude", "has an invalid coordinate format")
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngRaw), 64)
	if err != nil {
		return 0, 0, apperrors.Validation("longitude", "has an invalid coordinate format")
	}
	if lat < -90 || lat > 90 {
		return 0, 0, apperrors.Validation("latitude", "must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return 0, 0, apperrors.Validation("longitude", "must be between -180 and 180")
	}
	return lat, lng, nil
}
