package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to ReservationStatus
		want     bool
	}{
		{ReservationStatusConfirmed, ReservationStatusCancelled, true},
		{ReservationStatusConfirmed, ReservationStatusCompleted, true},
		{ReservationStatusConfirmed, ReservationStatusConfirmed, false},
		{ReservationStatusCancelled, ReservationStatusCancelled, false},
		{ReservationStatusCancelled, ReservationStatusConfirmed, false},
		{ReservationStatusCompleted, ReservationStatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestReservation_IsTerminal(t *testing.T) {
	assert.False(t, (&Reservation{Status: ReservationStatusConfirmed}).IsTerminal())
	assert.True(t, (&Reservation{Status: ReservationStatusCancelled}).IsTerminal())
	assert.True(t, (&Reservation{Status: ReservationStatusCompleted}).IsTerminal())
}

func TestParseReservationStatus(t *testing.T) {
	status, ok := ParseReservationStatus("cancelled")
	assert.True(t, ok)
	assert.Equal(t, ReservationStatusCancelled, status)

	_, ok = ParseReservationStatus("CANCELLED")
	assert.False(t, ok)
	_, ok = ParseReservationStatus("")
	assert.False(t, ok)
}
