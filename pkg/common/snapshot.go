package common

import "time"

// Snapshot is a point-in-time copy of the account and the open containers,
// published after every completed monitoring pass.
type Snapshot struct {
	Time      time.Time  `json:"time"`
	Account   Account    `json:"account"`
	Positions []Position `json:"positions"`
	Orders    []Order    `json:"orders"`
}
