package models

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyFacilitySet is returned when a nearest distance is requested
	// against a facility set with no members.
	ErrEmptyFacilitySet = errors.New("facility set is empty")
	// ErrEmptyDemandSet is returned when an analysis or report is requested
	// for zero demand points; the coverage ratio is undefined.
	ErrEmptyDemandSet = errors.New("demand set is empty")
)

// ValidationError reports malformed input: a coordinate outside its domain,
// a non-positive radius, or a heat weight outside (0, 1].
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateCoordinate checks latitude ∈ [-90, 90] and longitude ∈ [-180, 180].
// NaN and infinities are rejected.
func ValidateCoordinate(c Coordinate) error {
	if !inRange(c.Lat, 90) {
		return &ValidationError{Field: "latitude", Value: c.Lat, Reason: "must be within [-90, 90]"}
	}
	if !inRange(c.Lon, 180) {
		return &ValidationError{Field: "longitude", Value: c.Lon, Reason: "must be within [-180, 180]"}
	}
	return nil
}

func inRange(v, limit float64) bool {
	return !math.IsNaN(v) && v >= -limit && v <= limit
}
