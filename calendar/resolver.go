package calendar

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	ecbrates "github.com/malusev998/ecb-rates"
)

const DefaultLookback = 9

type Strategy string

const (
	// HolidayStrategy moves a holiday start date to the nearest earlier day that
	// the calendar also flags as a holiday.
	HolidayStrategy Strategy = "holiday"
	// BusinessDayStrategy moves a holiday or weekend start date to the nearest
	// earlier weekday that is not a holiday.
	BusinessDayStrategy Strategy = "business-day"
)

var defaultTARGET = NewTARGET()

var ErrUnresolvedWorkday = errors.New("no matching date found before the start date")

type Resolver struct {
	Calendar ecbrates.Calendar
	Strategy Strategy
	Lookback int
	Logger   *slog.Logger
}

func ConvertToStrategyFromString(str string) (Strategy, error) {
	switch strings.ToLower(str) {
	case "", "holiday":
		return HolidayStrategy, nil
	case "business-day", "businessday":
		return BusinessDayStrategy, nil
	}

	return "", fmt.Errorf("value %s is not valid Strategy", str)
}

func (r Resolver) NearestWorkday(date time.Time) (time.Time, error) {
	if !r.needsMove(date) {
		return date, nil
	}

	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	lookback := r.Lookback
	if lookback <= 0 {
		lookback = DefaultLookback
	}

	logger.Info("start date is not an ECB workday, selecting nearest earlier date",
		slog.String("date", date.Format(ecbrates.DateLayout)),
		slog.String("strategy", string(r.strategy())),
	)

	for i := 1; i <= lookback; i++ {
		candidate := date.AddDate(0, 0, -i)

		if r.accepts(candidate) {
			logger.Info("nearest date found", slog.String("date", candidate.Format(ecbrates.DateLayout)))

			if r.strategy() == HolidayStrategy {
				logger.Warn("selected start date is itself a closing day, use the business-day strategy to pick an open day",
					slog.String("date", candidate.Format(ecbrates.DateLayout)),
				)
			}

			return candidate, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %s (looked back %d days)", ErrUnresolvedWorkday, date.Format(ecbrates.DateLayout), lookback)
}

func (r Resolver) strategy() Strategy {
	if r.Strategy == "" {
		return HolidayStrategy
	}

	return r.Strategy
}

// calendar falls back to TARGET when no calendar is set.
func (r Resolver) calendar() ecbrates.Calendar {
	if r.Calendar == nil {
		return defaultTARGET
	}

	return r.Calendar
}

func (r Resolver) needsMove(date time.Time) bool {
	if r.strategy() == BusinessDayStrategy {
		return !r.isBusinessDay(date)
	}

	return r.calendar().IsHoliday(date)
}

func (r Resolver) accepts(date time.Time) bool {
	if r.strategy() == BusinessDayStrategy {
		return r.isBusinessDay(date)
	}

	return r.calendar().IsHoliday(date)
}

func (r Resolver) isBusinessDay(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	return !r.calendar().IsHoliday(date)
}
