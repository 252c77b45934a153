package entity

// HappyHour is an admin-configured time window with a reward multiplier. At
// most one window is expected to be active at a time; when windows overlap by
// misconfiguration, the highest enabled multiplier wins.
type HappyHour struct {
	Base

	Multiplier float64

	// DayOfWeek follows time.Weekday; -1 applies the window every day.
	DayOfWeek int

	// The window covers [StartHour, EndHour) in UTC.
	StartHour int
	EndHour   int

	Enabled bool
}
