package domain

import (
	"fmt"
	"time"
)

// TimeWindow bounds when a delivery may occur.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window (inclusive).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w TimeWindow) String() string {
	return w.Start.Format("15:04") + "-" + w.End.Format("15:04")
}

// A delivery client with a demand and a delivery time window.
// Clients are created at load time and never mutated.
type Client struct {
	ClientID   int
	LocationID string
	Coord      Coordinates
	DemandKg   int
	Window     TimeWindow
}

// DisplayID returns the client code used in route sequences, e.g. "C007".
func (c Client) DisplayID() string {
	return fmt.Sprintf("C%03d", c.ClientID)
}
