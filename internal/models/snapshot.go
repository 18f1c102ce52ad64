package models

import "time"

// Snapshot is a point-in-time bundle of one profile, its repositories and a bounded
// sample of commits. Consumed read-only by the metrics calculator and roast engine.
type Snapshot struct {
	Profile      Profile      `json:"profile"`
	Repositories []Repository `json:"repositories"`
	Commits      []Commit     `json:"commits"`
	FetchedAt    time.Time    `json:"fetched_at"`
}
