package model

// HitRate is one settled-prediction counter with its percentage.
type HitRate struct {
	Total int     `json:"total"`
	Hits  int     `json:"hits"`
	Rate  float64 `json:"rate"` // percentage, 0 when Total is 0
}

// NewHitRate computes the percentage, guarding the empty counter.
func NewHitRate(total, hits int) HitRate {
	hr := HitRate{Total: total, Hits: hits}
	if total > 0 {
		hr.Rate = float64(hits) / float64(total) * 100
	}
	return hr
}

// HitStats summarizes settled predictions overall and over the most
// recent ten and five periods.
type HitStats struct {
	Overall HitRate `json:"overall"`
	Last10  HitRate `json:"last_10"`
	Last5   HitRate `json:"last_5"`
}
