package models

import "time"

// ScoredAmount pairs an amount with its z-score within one poll window.
type ScoredAmount struct {
	Amount float64 `json:"amount"`
	Z      float64 `json:"z"`
}

// AnomalyEvent is published to the alert topic for every anomalous cycle.
type AnomalyEvent struct {
	UserID     string    `json:"user_id"`
	Suspicious []float64 `json:"suspicious"`
	History    []float64 `json:"history"`
	Rationale  string    `json:"rationale"`
	DetectedAt time.Time `json:"detected_at"`
}
