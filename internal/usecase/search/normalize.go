package search

import "github.com/kailas-cloud/fusegate/internal/domain/search/hit"

// Normalize maps the raw scores of one result set onto [0,1] by min-max
// scaling over that set: the best hit maps to 1 and the worst to 0.
//
// A set whose scores are all equal (including a singleton) carries no
// discriminating signal and maps every id to 0. An empty set yields an empty
// map. When an id repeats, its highest raw score is used.
func Normalize(hits []hit.Hit) map[string]float64 {
	out := make(map[string]float64, len(hits))
	if len(hits) == 0 {
		return out
	}

	raw := make(map[string]float64, len(hits))
	lo, hi := hits[0].Score, hits[0].Score
	for _, h := range hits {
		if prev, ok := raw[h.ID]; !ok || h.Score > prev {
			raw[h.ID] = h.Score
		}
		lo = min(lo, h.Score)
		hi = max(hi, h.Score)
	}

	span := hi - lo
	for id, s := range raw {
		if span == 0 {
			out[id] = 0
			continue
		}
		out[id] = clamp01((s - lo) / span)
	}
	return out
}

// clamp01 absorbs float rounding at the interval edges.
func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
