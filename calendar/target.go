// Package calendar holds the TARGET closing-day calendar used by the ECB and
// the resolver that moves a start date onto a date the calendar accepts.
package calendar

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/ecb"

	ecbrates "github.com/malusev998/ecb-rates"
)

var _ ecbrates.Calendar = (*TARGET)(nil)

// TARGET flags the ECB closing days: New Year's Day, Good Friday, Easter Monday,
// Labour Day, Christmas Day and 26 December. Extra days can be added for local
// closures.
type TARGET struct {
	calendar *cal.BusinessCalendar
	extra    map[string]struct{}
}

func NewTARGET(extra ...time.Time) *TARGET {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(ecb.Holidays...)

	t := &TARGET{
		calendar: c,
		extra:    make(map[string]struct{}, len(extra)),
	}

	for _, day := range extra {
		t.extra[day.Format(ecbrates.DateLayout)] = struct{}{}
	}

	return t
}

func (t *TARGET) IsHoliday(date time.Time) bool {
	if _, ok := t.extra[date.Format(ecbrates.DateLayout)]; ok {
		return true
	}

	actual, observed, _ := t.calendar.IsHoliday(date)

	return actual || observed
}
