package utils

import "time"

// DateLayout is the calendar-date format used in URLs and date inputs.
const DateLayout = "2006-01-02"

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (s SystemClock) Now() time.Time {
	return time.Now()
}

type MockClock struct {
	FixedNow time.Time
}

func (m *MockClock) Now() time.Time {
	return m.FixedNow
}

func (m *MockClock) SetNow(now time.Time) {
	m.FixedNow = now
}

// Today returns the clock's current calendar date formatted with DateLayout.
func Today(clock Clock) string {
	return clock.Now().Format(DateLayout)
}
