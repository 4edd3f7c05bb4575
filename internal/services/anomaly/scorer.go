// Package anomaly flags transaction amounts that stand out from their window.
package anomaly

import (
	"math"

	"BankBrain/internal/domain/models"
)

const (
	// MinSamples is the smallest window the scorer will judge.
	MinSamples = 5
	// Threshold is the z-score above which an amount is suspicious.
	Threshold = 2.5
)

// Score returns every amount paired with its z-score, or nil when fewer than
// MinSamples amounts are given. A zero population standard deviation is
// replaced by 1.0.
func Score(amounts []float64) []models.ScoredAmount {
	if len(amounts) < MinSamples {
		return nil
	}

	mean := Mean(amounts)
	sd := PopulationStdDev(amounts, mean)
	if sd == 0 {
		sd = 1.0
	}

	scored := make([]models.ScoredAmount, 0, len(amounts))
	for _, a := range amounts {
		scored = append(scored, models.ScoredAmount{Amount: a, Z: (a - mean) / sd})
	}
	return scored
}

// Suspicious returns the amounts whose z-score exceeds Threshold, in input order.
func Suspicious(amounts []float64) []float64 {
	var out []float64
	for _, s := range Score(amounts) {
		if s.Z > Threshold {
			out = append(out, s.Amount)
		}
	}
	return out
}

// Mean is the arithmetic mean; zero for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// PopulationStdDev divides by n, not n-1.
func PopulationStdDev(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}
