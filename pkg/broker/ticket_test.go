package broker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTicketSequence_StrictlyIncreasing(t *testing.T) {
	var seq ticketSequence
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	prev := seq.next(now)
	for i := 0; i < 10000; i++ {
		got := seq.next(now)
		assert.Greater(t, got, prev)
		prev = got
	}
}

func TestTicketSequence_TimeOrdered(t *testing.T) {
	var seq ticketSequence
	early := seq.next(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	late := seq.next(time.Date(2025, 3, 1, 12, 0, 1, 0, time.UTC))

	assert.Greater(t, late, early)
}

func TestTicketTime(t *testing.T) {
	var seq ticketSequence
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	ticket := seq.next(now)
	assert.True(t, now.Equal(TicketTime(ticket)))
}
