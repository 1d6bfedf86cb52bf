package broker

import (
	"sync/atomic"
	"time"
)

const (
	ticketSequenceBits = 13
	ticketMaxSequence  = 1<<ticketSequenceBits - 1
)

var ticketEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()

// ticketSequence hands out strictly increasing tickets. The high bits carry
// the simulation timestamp so tickets sort by creation time; the low bits
// disambiguate tickets issued within the same millisecond.
type ticketSequence struct {
	last atomic.Int64
}

// next returns a fresh ticket for the given simulation time. Tickets issued
// at earlier simulation times never exceed tickets issued later.
func (s *ticketSequence) next(now time.Time) int64 {
	candidate := (now.UnixMilli() - ticketEpoch) << ticketSequenceBits
	for {
		last := s.last.Load()
		if candidate <= last {
			candidate = last + 1
		}
		if s.last.CompareAndSwap(last, candidate) {
			return candidate
		}
	}
}

// TicketTime recovers the simulation timestamp a ticket was issued at.
func TicketTime(ticket int64) time.Time {
	return time.UnixMilli(ticketEpoch + ticket>>ticketSequenceBits)
}
