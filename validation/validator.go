package validation

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	ecbrates "github.com/malusev998/ecb-rates"
)

const registeredTag = "registered"

var (
	ErrInvalidCurrency        = errors.New("currency supplied by user does not exist")
	ErrInvalidDateFormat      = errors.New("date is not in YYYY-MM-DD format")
	ErrInvalidDateOrder       = errors.New("from date is after to date")
	ErrIdenticalCurrencyLists = errors.New("from currency list is equal to to currency list, please select different currencies")
	ErrEmptyCurrencyList      = errors.New("currency list is empty")
)

type (
	Registry interface {
		Contains(code string) bool
	}

	DateRange struct {
		From time.Time
		To   time.Time
	}

	Validator struct {
		validate *validator.Validate
	}
)

func New(registry Registry) *Validator {
	validate := validator.New()

	// RegisterValidation rejects only an empty or restricted tag or a nil func, none of which apply here.
	_ = validate.RegisterValidation(registeredTag, func(fl validator.FieldLevel) bool {
		return registry.Contains(fl.Field().String())
	})

	return &Validator{validate: validate}
}

// Validate checks the pipeline input and returns the parsed date range.
// Currencies are checked first, then date format, date order and finally
// whether both currency lists are the same.
func (v *Validator) Validate(from, to []string, fromDate, toDate string) (DateRange, error) {
	if len(from) == 0 {
		return DateRange{}, fmt.Errorf("%w: from", ErrEmptyCurrencyList)
	}

	if len(to) == 0 {
		return DateRange{}, fmt.Errorf("%w: to", ErrEmptyCurrencyList)
	}

	for _, code := range slices.Concat(from, to) {
		if err := v.validate.Var(code, "required,"+registeredTag); err != nil {
			return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
		}
	}

	start, err := v.parseDate(fromDate)
	if err != nil {
		return DateRange{}, err
	}

	end, err := v.parseDate(toDate)
	if err != nil {
		return DateRange{}, err
	}

	if start.After(end) {
		return DateRange{}, fmt.Errorf("%w: %s > %s", ErrInvalidDateOrder, fromDate, toDate)
	}

	if slices.Equal(from, to) {
		return DateRange{}, ErrIdenticalCurrencyLists
	}

	return DateRange{From: start, To: end}, nil
}

func (v *Validator) parseDate(value string) (time.Time, error) {
	if err := v.validate.Var(value, "required,datetime="+ecbrates.DateLayout); err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, value)
	}

	date, err := time.Parse(ecbrates.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, value)
	}

	return date, nil
}
