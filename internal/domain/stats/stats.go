// Package stats computes the analysis views over a draw window: number
// frequency, sign distribution, missing periods and hot/cold extremes.
// Every function takes the window most-recent-first, as the store
// returns it, and only the special ball of each draw counts.
package stats

import (
	"fmt"
	"sort"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

// Default window and cut sizes for the analysis views.
const (
	DefaultWindow        = 50
	DefaultHotColdWindow = 30
	DefaultTopNumbers    = 10
	DefaultTopMissing    = 15
)

// NumberCount pairs a ball number with its appearance count.
type NumberCount struct {
	Number int `json:"number"`
	Count  int `json:"count"`
}

// NumberGap pairs a ball number with the periods since it last appeared.
// A number absent from the whole window reports the window length.
type NumberGap struct {
	Number  int `json:"number"`
	Missing int `json:"missing"`
}

// SignShare is one sign's slice of the window's outcome distribution.
type SignShare struct {
	Sign       zodiac.Sign `json:"sign"`
	Count      int         `json:"count"`
	Percentage float64     `json:"percentage"`
}

// HotCold carries both extremes of number frequency over a window.
type HotCold struct {
	Hot  []NumberCount `json:"hot"`
	Cold []NumberCount `json:"cold"`
}

// SignDetail summarizes one sign's behavior over a window.
// CurrentMissing is the periods since the sign last decided a draw,
// MaxMissing the depth of its oldest appearance and AvgMissing the mean
// depth. A sign absent from the window reports the window length for
// all three.
type SignDetail struct {
	Sign           zodiac.Sign `json:"sign"`
	Count          int         `json:"count"`
	CurrentMissing int         `json:"current_missing"`
	MaxMissing     int         `json:"max_missing"`
	AvgMissing     float64     `json:"avg_missing"`
	Percentage     float64     `json:"percentage"`
}

// Frequency returns the n most frequent special numbers of the window,
// most frequent first. Ties break toward the lower number.
func Frequency(draws []model.Draw, n int) []NumberCount {
	if len(draws) == 0 || n <= 0 {
		return nil
	}

	counts := specialCounts(draws)
	out := make([]NumberCount, 0, len(counts))
	for num, c := range counts {
		out = append(out, NumberCount{Number: num, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Number < out[j].Number
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Distribution returns every sign's share of the window's outcomes,
// largest share first. Ties keep cycle order.
func Distribution(draws []model.Draw) []SignShare {
	counts := make(map[zodiac.Sign]int, zodiac.SignCount)
	for _, d := range draws {
		counts[d.SpecialSign]++
	}

	shares := make([]SignShare, 0, zodiac.SignCount)
	for _, s := range zodiac.Signs() {
		share := SignShare{Sign: s, Count: counts[s]}
		if len(draws) > 0 {
			share.Percentage = float64(share.Count) / float64(len(draws)) * 100
		}
		shares = append(shares, share)
	}
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Count > shares[j].Count
	})
	return shares
}

// Missing returns the n longest-absent ball numbers of the window,
// longest absence first. Ties break toward the lower number.
func Missing(draws []model.Draw, n int) []NumberGap {
	if len(draws) == 0 || n <= 0 {
		return nil
	}

	last := make(map[int]int, zodiac.MaxNumber)
	for idx, d := range draws {
		if _, ok := last[d.Special]; !ok {
			last[d.Special] = idx
		}
	}

	gaps := make([]NumberGap, 0, zodiac.UnassignedNumber-1)
	for num := zodiac.MinNumber; num < zodiac.UnassignedNumber; num++ {
		missing, ok := last[num]
		if !ok {
			missing = len(draws)
		}
		gaps = append(gaps, NumberGap{Number: num, Missing: missing})
	}
	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Missing != gaps[j].Missing {
			return gaps[i].Missing > gaps[j].Missing
		}
		return gaps[i].Number < gaps[j].Number
	})

	if len(gaps) > n {
		gaps = gaps[:n]
	}
	return gaps
}

// HotColdNumbers returns the n hottest and n coldest special numbers of
// the window. Cold numbers are those absent from the window, lowest
// first, padded with the least frequent appeared ones when fewer than n
// are fully absent.
func HotColdNumbers(draws []model.Draw, n int) HotCold {
	if len(draws) == 0 || n <= 0 {
		return HotCold{}
	}

	counts := specialCounts(draws)

	cold := make([]NumberCount, 0, n)
	for num := zodiac.MinNumber; num < zodiac.UnassignedNumber && len(cold) < n; num++ {
		if counts[num] == 0 {
			cold = append(cold, NumberCount{Number: num})
		}
	}
	if len(cold) < n {
		appeared := make([]NumberCount, 0, len(counts))
		for num, c := range counts {
			appeared = append(appeared, NumberCount{Number: num, Count: c})
		}
		sort.Slice(appeared, func(i, j int) bool {
			if appeared[i].Count != appeared[j].Count {
				return appeared[i].Count < appeared[j].Count
			}
			return appeared[i].Number < appeared[j].Number
		})
		for _, nc := range appeared {
			if len(cold) == n {
				break
			}
			cold = append(cold, nc)
		}
	}

	return HotCold{
		Hot:  Frequency(draws, n),
		Cold: cold,
	}
}

// DetailOf summarizes one sign's behavior over the window.
func DetailOf(draws []model.Draw, s zodiac.Sign) (SignDetail, error) {
	if !zodiac.Valid(s) {
		return SignDetail{}, fmt.Errorf("%w: %q", zodiac.ErrUnknownSign, string(s))
	}

	detail := SignDetail{Sign: s}
	if len(draws) == 0 {
		return detail, nil
	}

	var positions []int
	for idx, d := range draws {
		if d.SpecialSign == s {
			positions = append(positions, idx)
		}
	}

	detail.Count = len(positions)
	detail.Percentage = float64(detail.Count) / float64(len(draws)) * 100
	if len(positions) == 0 {
		detail.CurrentMissing = len(draws)
		detail.MaxMissing = len(draws)
		detail.AvgMissing = float64(len(draws))
		return detail, nil
	}

	detail.CurrentMissing = positions[0]
	detail.MaxMissing = positions[len(positions)-1]
	sum := 0
	for _, p := range positions {
		sum += p
	}
	detail.AvgMissing = float64(sum) / float64(len(positions))
	return detail, nil
}

func specialCounts(draws []model.Draw) map[int]int {
	counts := make(map[int]int, len(draws))
	for _, d := range draws {
		counts[d.Special]++
	}
	return counts
}
