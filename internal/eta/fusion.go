package eta

import "math"

// Observation is one crowd report reduced to what the fusion math needs.
type Observation struct {
	ArrivalSeconds int
	AgeSeconds     float64
}

// WeightedMean computes the recency-weighted mean arrival of the
// observations: weight(age) = exp(-age / max(1, decaySeconds)). The
// second return is false when no observations carry weight.
func WeightedMean(obs []Observation, decaySeconds int) (int, bool) {
	if len(obs) == 0 {
		return 0, false
	}
	if decaySeconds < 1 {
		decaySeconds = 1
	}

	totalWeight, total := 0.0, 0.0
	for _, o := range obs {
		w := math.Exp(-o.AgeSeconds / float64(decaySeconds))
		totalWeight += w
		total += float64(o.ArrivalSeconds) * w
	}
	if totalWeight <= 0 {
		return 0, false
	}
	return int(math.Round(total / totalWeight)), true
}

// FuseCrowdLive combines a crowd estimate with a live estimate, the
// live component weighted higher as the fresher signal.
func FuseCrowdLive(crowd, live int) int {
	return int(math.Round(float64(crowd)*0.4 + float64(live)*0.6))
}
