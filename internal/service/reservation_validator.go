package service

import (
	"regexp"
	"time"
	"unicode/utf8"

	"tablebook/internal/errors"
	"tablebook/internal/model"
)

var timeOfDayRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ReservationValidator validates reservation fields against the business
// calendar. "Today" is the current date in the configured location.
type ReservationValidator struct {
	loc *time.Location
	now func() time.Time
}

// NewReservationValidator creates a validator. A nil loc means local time and
// a nil now means time.Now.
func NewReservationValidator(loc *time.Location, now func() time.Time) *ReservationValidator {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &ReservationValidator{loc: loc, now: now}
}

// Now returns the current instant.
func (v *ReservationValidator) Now() time.Time {
	return v.now()
}

// Today returns the current calendar date as YYYY-MM-DD.
func (v *ReservationValidator) Today() string {
	return v.now().In(v.loc).Format(model.DateLayout)
}

// ValidateDate checks the date layout and that it is not before today.
func (v *ReservationValidator) ValidateDate(date string) error {
	parsed, err := time.ParseInLocation(model.DateLayout, date, v.loc)
	if err != nil || parsed.Format(model.DateLayout) != date {
		return errors.ErrInvalidDate
	}
	// Same-layout strings compare chronologically.
	if date < v.Today() {
		return errors.ErrDateInPast
	}
	return nil
}

// ValidateTime checks a 24h HH:MM time of day.
func (v *ReservationValidator) ValidateTime(t string) error {
	if !timeOfDayRegex.MatchString(t) {
		return errors.ErrInvalidTime
	}
	return nil
}

// ValidatePeopleCount checks the party size range.
func (v *ReservationValidator) ValidatePeopleCount(n int) error {
	if n < model.MinPeopleCount || n > model.MaxPeopleCount {
		return errors.ErrInvalidPeopleCount
	}
	return nil
}

// ValidateSpecialRequests checks the length in characters, not bytes.
func (v *ReservationValidator) ValidateSpecialRequests(s string) error {
	if utf8.RuneCountInString(s) > model.MaxSpecialRequestsSize {
		return errors.ErrSpecialRequestsTooLong
	}
	return nil
}

// ValidateUpdate checks every supplied field of a partial update.
func (v *ReservationValidator) ValidateUpdate(in UpdateReservationInput) error {
	if in.Date != nil {
		if err := v.ValidateDate(*in.Date); err != nil {
			return err
		}
	}
	if in.Time != nil {
		if err := v.ValidateTime(*in.Time); err != nil {
			return err
		}
	}
	if in.PeopleCount != nil {
		if err := v.ValidatePeopleCount(*in.PeopleCount); err != nil {
			return err
		}
	}
	if in.SpecialRequests != nil {
		if err := v.ValidateSpecialRequests(*in.SpecialRequests); err != nil {
			return err
		}
	}
	return nil
}
