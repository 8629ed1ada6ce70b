package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustRange(t *testing.T, in, out time.Time) DateRange {
	t.Helper()
	r, err := NewDateRange(in, out)
	require.NoError(t, err)
	return r
}

func TestNewDateRange_RejectsInvalid(t *testing.T) {
	_, err := NewDateRange(date(2024, 5, 5), date(2024, 5, 5))
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = NewDateRange(date(2024, 5, 6), date(2024, 5, 5))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestNewDateRange_TruncatesToUTCDay(t *testing.T) {
	// Late-evening local timestamps must not shift the night count
	in := time.Date(2024, 5, 1, 23, 45, 0, 0, time.UTC)
	out := time.Date(2024, 5, 3, 0, 10, 0, 0, time.UTC)

	r, err := NewDateRange(in, out)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 5, 1), r.CheckIn)
	assert.Equal(t, date(2024, 5, 3), r.CheckOut)
	assert.Equal(t, 2, r.Nights())
}

func TestDateRange_Nights(t *testing.T) {
	assert.Equal(t, 1, mustRange(t, date(2024, 5, 1), date(2024, 5, 2)).Nights())
	assert.Equal(t, 4, mustRange(t, date(2024, 5, 1), date(2024, 5, 5)).Nights())
}

func TestDateRange_Overlaps(t *testing.T) {
	booked := mustRange(t, date(2024, 5, 1), date(2024, 5, 5))

	cases := []struct {
		name     string
		other    DateRange
		overlaps bool
	}{
		{"identical", mustRange(t, date(2024, 5, 1), date(2024, 5, 5)), true},
		{"contained", mustRange(t, date(2024, 5, 2), date(2024, 5, 4)), true},
		{"straddles start", mustRange(t, date(2024, 4, 28), date(2024, 5, 2)), true},
		{"straddles end", mustRange(t, date(2024, 5, 4), date(2024, 5, 6)), true},
		{"back-to-back after", mustRange(t, date(2024, 5, 5), date(2024, 5, 8)), false},
		{"back-to-back before", mustRange(t, date(2024, 4, 28), date(2024, 5, 1)), false},
		{"fully after", mustRange(t, date(2024, 5, 10), date(2024, 5, 12)), false},
		{"fully before", mustRange(t, date(2024, 4, 1), date(2024, 4, 5)), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, booked.Overlaps(tc.other))
			assert.Equal(t, tc.overlaps, tc.other.Overlaps(booked), "overlap must be symmetric")
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusPending.CanTransitionTo(StatusConfirmed))
	assert.True(t, StatusPending.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCancelled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusCompleted))

	assert.False(t, StatusPending.CanTransitionTo(StatusCompleted))
	assert.False(t, StatusConfirmed.CanTransitionTo(StatusPending))

	// Terminal states have no outgoing edges
	for _, terminal := range []ReservationStatus{StatusCancelled, StatusCompleted} {
		assert.True(t, terminal.IsTerminal())
		for _, target := range []ReservationStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted} {
			assert.False(t, terminal.CanTransitionTo(target), "%s -> %s should be rejected", terminal, target)
		}
	}
}

func TestInvalidTransitionError_NamesStates(t *testing.T) {
	err := &InvalidTransitionError{From: StatusCancelled, To: StatusConfirmed}
	assert.Contains(t, err.Error(), "cancelled")
	assert.Contains(t, err.Error(), "confirmed")
}
