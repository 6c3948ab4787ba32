package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-ageflow/internal/config"
)

// ErrBirthDateFuture is returned by ValidateBirthDate for dates after "now".
var ErrBirthDateFuture = errors.New(config.ErrBirthFuture)

// Age returns the elapsed time between birth and now in fractional years,
// using the mean tropical year (365.2422 days).
// A birth instant after now is not rejected and yields a negative value;
// callers validate user input with ValidateBirthDate.
func Age(birth, now time.Time) float64 {
	return now.Sub(birth).Seconds() / config.SecondsPerYear
}

// FormatPrimary renders an age for the main view (8 decimals).
func FormatPrimary(age float64) string {
	return fmt.Sprintf(config.FormatAgePrimary, age)
}

// FormatWidget renders an age for the widget surface (5 decimals).
func FormatWidget(age float64) string {
	return fmt.Sprintf(config.FormatAgeWidget, age)
}

// NormalizeBirthDate drops the time-of-day, keeping the calendar day and location.
func NormalizeBirthDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ValidateBirthDate enforces the "not after today" bound of the date pickers.
func ValidateBirthDate(birth, now time.Time) error {
	if birth.After(now) {
		return fmt.Errorf("%w: %s", ErrBirthDateFuture, birth.Format(config.DateFormatDisplay))
	}
	return nil
}
