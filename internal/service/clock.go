package service

import "time"

// Clock abstracts wall-clock access so status derivation stays testable.
// Implementations must return times in the institution's civil zone.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type zoneClock struct {
	loc *time.Location
}

// NewClock builds a Clock pinned to the named zone. An unknown zone falls
// back to Asia/Jakarta, which ships in the tzdata bundle.
func NewClock(timezone string) Clock {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc, _ = time.LoadLocation("Asia/Jakarta")
	}
	return &zoneClock{loc: loc}
}

func (c *zoneClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *zoneClock) Location() *time.Location {
	return c.loc
}

// FixedClock returns a Clock frozen at the given instant. Test helper.
func FixedClock(at time.Time) Clock {
	return fixedClock{at: at}
}

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time {
	return c.at
}

func (c fixedClock) Location() *time.Location {
	return c.at.Location()
}
