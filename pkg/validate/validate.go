package validate

import (
	"regexp"
	"time"
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe    = regexp.MustCompile(`^\d{7,15}$`)
	objectIDRe = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
)

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Phone reports whether s is a 7-15 digit phone number.
func Phone(s string) bool {
	return phoneRe.MatchString(s)
}

// ObjectID reports whether s is a 24-char hex object id.
func ObjectID(s string) bool {
	return objectIDRe.MatchString(s)
}

// Coordinates reports whether coords is a [longitude, latitude] pair
// inside the valid ranges.
func Coordinates(coords []float64) bool {
	if len(coords) != 2 {
		return false
	}
	lng, lat := coords[0], coords[1]
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

// VehicleType reports whether s is an accepted vehicle kind.
func VehicleType(s string) bool {
	return s == "Car" || s == "Bike"
}

// FutureDate reports whether t is set and strictly in the future.
func FutureDate(t time.Time) bool {
	return !t.IsZero() && t.After(time.Now())
}

// PositiveInt reports whether n is greater than zero.
func PositiveInt(n int) bool {
	return n > 0
}

// NotEmpty reports whether s has content.
func NotEmpty(s string) bool {
	return s != ""
}
