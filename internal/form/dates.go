package form

import (
	"fmt"
	"strings"
	"time"

	"github.com/blockedby/application-tracker/internal/models"
)

// DisplayDateLayout is the French date format shown by the form.
const DisplayDateLayout = "02/01/2006"

// ParseInputDate reads a date typed by the user, either as YYYY-MM-DD or as
// dd/MM/yyyy, as midnight in loc.
func ParseInputDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range []string{models.DateLayout, DisplayDateLayout} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", models.ErrInvalidDate, s)
}

// toYMD keeps only the calendar-local year, month and day of t.
func toYMD(t time.Time) models.Date {
	return models.DateOf(t)
}

func toYMDPtr(t *time.Time) *models.Date {
	if t == nil {
		return nil
	}
	d := toYMD(*t)
	return &d
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
