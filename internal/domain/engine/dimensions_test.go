package engine

import (
	"testing"
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
	. "github.com/smartystreets/goconvey/convey"
)

// drawOf builds a valid draw whose special ball is the given number.
func drawOf(special int) model.Draw {
	balls := make([]int, 0, model.DrawNumbers)
	for n := 41; len(balls) < model.DrawNumbers-1; n++ {
		if n != special {
			balls = append(balls, n)
		}
	}
	balls = append(balls, special)

	d, err := model.NewDraw("2024001", balls, time.Date(2024, 5, 1, 21, 32, 32, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	return d
}

// drawFor builds a draw whose special ball belongs to the given sign.
func drawFor(sign zodiac.Sign) model.Draw {
	nums, err := zodiac.Members(sign)
	if err != nil {
		panic(err)
	}
	return drawOf(nums[0])
}

// winOf snapshots one draw per sign, most recent first.
func winOf(signs ...zodiac.Sign) Window {
	draws := make([]model.Draw, len(signs))
	for i, s := range signs {
		draws[i] = drawFor(s)
	}
	return NewWindow(draws, len(signs))
}

// winSpecials snapshots one draw per special ball, most recent first.
func winSpecials(specials ...int) Window {
	draws := make([]model.Draw, len(specials))
	for i, t := range specials {
		draws[i] = drawOf(t)
	}
	return NewWindow(draws, len(specials))
}

func ctxFor(win Window) *callCtx {
	return &callCtx{win: win, spectral: NewFFTPeriodicity()}
}

func repeatSigns(s zodiac.Sign, n int) []zodiac.Sign {
	out := make([]zodiac.Sign, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestBasicDimensions(t *testing.T) {
	Convey("Given the basic statistics dimensions", t, func() {
		Convey("When a sign is missing from the whole window", func() {
			c := ctxFor(winOf(repeatSigns(zodiac.Tiger, 60)...))

			Convey("Then long-term missing saturates at 100", func() {
				So(scoreLongTermMissing(c, zodiac.Rat, nil), ShouldEqual, 100)
			})

			Convey("And short-term hot treats it as fully cold", func() {
				So(scoreShortTermHot(c, zodiac.Rat, nil), ShouldEqual, 100)
			})

			Convey("And cycle pattern marks it maximally due", func() {
				So(scoreCyclePattern(c, zodiac.Rat, nil), ShouldEqual, 100)
			})
		})

		Convey("When a sign last appeared one expected gap ago", func() {
			signs := repeatSigns(zodiac.Tiger, 120)
			signs[10] = zodiac.Rat
			c := ctxFor(winOf(signs...))

			Convey("Then long-term missing sits at the midpoint", func() {
				So(scoreLongTermMissing(c, zodiac.Rat, nil), ShouldEqual, 50)
			})
		})

		Convey("When a sign appeared three times in the last twenty draws", func() {
			signs := repeatSigns(zodiac.Tiger, 20)
			signs[1], signs[5], signs[9] = zodiac.Rat, zodiac.Rat, zodiac.Rat
			c := ctxFor(winOf(signs...))

			Convey("Then short-term hot drops by fifteen per appearance", func() {
				So(scoreShortTermHot(c, zodiac.Rat, nil), ShouldEqual, 55)
			})
		})

		Convey("When the window is a perfect five-fold cycle", func() {
			signs := make([]zodiac.Sign, 0, 60)
			for i := 0; i < 5; i++ {
				signs = append(signs, zodiac.Signs()...)
			}
			c := ctxFor(winOf(signs...))

			Convey("Then cycle pattern is neutral for every sign", func() {
				for _, s := range zodiac.Signs() {
					So(scoreCyclePattern(c, s, nil), ShouldEqual, 50)
				}
			})
		})

		Convey("When one sign fills the window", func() {
			c := ctxFor(winOf(repeatSigns(zodiac.Tiger, 60)...))

			Convey("Then cycle pattern bottoms out for it", func() {
				So(scoreCyclePattern(c, zodiac.Tiger, nil), ShouldEqual, 0)
			})
		})

		Convey("When a sign sits at each recent position", func() {
			cases := []struct {
				pos  int
				want float64
			}{
				{0, 0}, {1, 30}, {2, 30}, {3, 60}, {4, 60},
			}
			for _, tc := range cases {
				signs := repeatSigns(zodiac.Tiger, 10)
				signs[tc.pos] = zodiac.Rat
				c := ctxFor(winOf(signs...))
				So(scoreConsecutivePenalty(c, zodiac.Rat, nil), ShouldEqual, tc.want)
			}

			Convey("And an absent sign carries no penalty", func() {
				c := ctxFor(winOf(repeatSigns(zodiac.Tiger, 10)...))
				So(scoreConsecutivePenalty(c, zodiac.Rat, nil), ShouldEqual, 100)
			})
		})
	})
}

func TestMarkovChain(t *testing.T) {
	Convey("Given a window with observed transitions", t, func() {
		// Most recent first: Ox appeared twice before, followed once by
		// Tiger and once by Rabbit.
		c := ctxFor(winOf(zodiac.Ox, zodiac.Tiger, zodiac.Ox, zodiac.Rabbit, zodiac.Ox))

		Convey("Then observed successors split the probability mass", func() {
			So(scoreMarkovChain(c, zodiac.Tiger, nil), ShouldEqual, 50)
			So(scoreMarkovChain(c, zodiac.Rabbit, nil), ShouldEqual, 50)
		})

		Convey("And unobserved successors score zero", func() {
			So(scoreMarkovChain(c, zodiac.Dragon, nil), ShouldEqual, 0)
		})
	})

	Convey("Given a window where the latest sign never recurred", t, func() {
		c := ctxFor(winOf(zodiac.Ox, zodiac.Tiger, zodiac.Rabbit, zodiac.Dragon))

		Convey("Then every candidate scores neutral", func() {
			So(scoreMarkovChain(c, zodiac.Tiger, nil), ShouldEqual, 50)
			So(scoreMarkovChain(c, zodiac.Pig, nil), ShouldEqual, 50)
		})
	})

	Convey("Given a window too short to hold a transition", t, func() {
		c := ctxFor(winOf(zodiac.Ox))

		Convey("Then the score is neutral", func() {
			So(scoreMarkovChain(c, zodiac.Tiger, nil), ShouldEqual, 50)
		})
	})
}

func TestSpectral(t *testing.T) {
	Convey("Given the spectral dimension", t, func() {
		Convey("When a sign recurs every fourth draw across a long window", func() {
			signs := repeatSigns(zodiac.Tiger, 60)
			for i := 0; i < 60; i += 4 {
				signs[i] = zodiac.Rat
			}
			c := ctxFor(winOf(signs...))

			Convey("Then the dominant frequency scores it high", func() {
				So(scoreSpectral(c, zodiac.Rat, nil), ShouldAlmostEqual, 75, 1e-6)
			})
		})

		Convey("When one sign fills a long window", func() {
			c := ctxFor(winOf(repeatSigns(zodiac.Tiger, 60)...))

			Convey("Then a constant signal has no cycle to reward", func() {
				So(scoreSpectral(c, zodiac.Tiger, nil), ShouldAlmostEqual, 0, 1e-6)
			})
		})

		Convey("When a short window recurs at a perfectly even gap", func() {
			signs := repeatSigns(zodiac.Tiger, 24)
			for i := 0; i < 24; i += 4 {
				signs[i] = zodiac.Rat
			}
			c := ctxFor(winOf(signs...))

			Convey("Then zero gap variance scores 100", func() {
				So(scoreSpectral(c, zodiac.Rat, nil), ShouldEqual, 100)
			})
		})

		Convey("When a short window recurs at erratic gaps", func() {
			signs := repeatSigns(zodiac.Tiger, 25)
			for _, i := range []int{0, 1, 9, 10, 24} {
				signs[i] = zodiac.Rat
			}
			c := ctxFor(winOf(signs...))

			Convey("Then the gap variance is charged against 100", func() {
				So(scoreSpectral(c, zodiac.Rat, nil), ShouldAlmostEqual, 70.5, 1e-9)
			})
		})

		Convey("When a sign appeared fewer than twice", func() {
			signs := repeatSigns(zodiac.Tiger, 25)
			signs[3] = zodiac.Rat
			c := ctxFor(winOf(signs...))

			Convey("Then the score is neutral", func() {
				So(scoreSpectral(c, zodiac.Rat, nil), ShouldEqual, 50)
			})
		})
	})
}

func TestBayesian(t *testing.T) {
	Convey("Given a window with one earlier draw in the latest draw's state", t, func() {
		// Latest special 5: Ox, small, odd. Special 17 at index 2 matches
		// that state and was followed by special 6, a Rat.
		c := ctxFor(winSpecials(5, 6, 17, 8, 9))

		Convey("Then the observed follower takes the whole mass", func() {
			So(scoreBayesian(c, zodiac.Rat, nil), ShouldEqual, 100)
			So(scoreBayesian(c, zodiac.Tiger, nil), ShouldEqual, 0)
		})
	})

	Convey("Given a window with no earlier draw in that state", t, func() {
		c := ctxFor(winSpecials(5, 6, 8, 9))

		Convey("Then the score is neutral", func() {
			So(scoreBayesian(c, zodiac.Rat, nil), ShouldEqual, 50)
		})
	})

	Convey("Given an empty window", t, func() {
		c := ctxFor(NewWindow(nil, 10))

		Convey("Then the score is neutral", func() {
			So(scoreBayesian(c, zodiac.Rat, nil), ShouldEqual, 50)
		})
	})
}

func TestNumberDimensions(t *testing.T) {
	Convey("Given the number-property dimensions", t, func() {
		Convey("When a sign's balls never hit recently", func() {
			c := ctxFor(winSpecials(1, 13, 25, 37, 49, 1, 13, 25, 37, 49))

			Convey("Then hot-cold marks the cold sign fully due", func() {
				So(scoreNumberHotCold(c, zodiac.Dragon, []int{2, 14, 26, 38}), ShouldEqual, 100)
			})

			Convey("And the saturated sign scores zero", func() {
				So(scoreNumberHotCold(c, zodiac.Snake, []int{1, 13, 25, 37, 49}), ShouldEqual, 0)
			})
		})

		Convey("When one tail dominates the recent specials", func() {
			c := ctxFor(winSpecials(1, 11, 21, 31, 41))

			Convey("Then hot tails score zero and cold tails full", func() {
				So(scoreTailTrend(c, zodiac.Rat, []int{1, 11}), ShouldEqual, 0)
				So(scoreTailTrend(c, zodiac.Rat, []int{2, 12}), ShouldEqual, 100)
				So(scoreTailTrend(c, zodiac.Rat, []int{1, 2}), ShouldEqual, 50)
			})
		})

		Convey("When the recent specials all run big", func() {
			c := ctxFor(winSpecials(30, 35, 40, 45, 28))

			Convey("Then small-heavy signs get the contrarian lean", func() {
				So(scoreBigSmall(c, zodiac.Rat, []int{1, 2, 3}), ShouldEqual, 80)
			})

			Convey("And big-heavy signs stay neutral", func() {
				So(scoreBigSmall(c, zodiac.Rat, []int{30, 40}), ShouldEqual, 50)
			})
		})

		Convey("When the recent specials all run odd", func() {
			c := ctxFor(winSpecials(1, 3, 5, 7, 9))

			Convey("Then even-heavy signs get the contrarian lean", func() {
				So(scoreOddEven(c, zodiac.Rat, []int{2, 4}), ShouldEqual, 80)
				So(scoreOddEven(c, zodiac.Rat, []int{1, 3}), ShouldEqual, 50)
			})
		})

		Convey("When the recent specials all run prime", func() {
			c := ctxFor(winSpecials(2, 3, 5, 7, 11))

			Convey("Then composite-heavy signs get the contrarian lean", func() {
				So(scorePrimeComposite(c, zodiac.Rat, []int{4, 6, 8}), ShouldEqual, 80)
				So(scorePrimeComposite(c, zodiac.Rat, []int{2, 3, 9}), ShouldEqual, 50)
			})
		})

		Convey("When the window is empty", func() {
			c := ctxFor(NewWindow(nil, 10))

			Convey("Then every number dimension is neutral", func() {
				So(scoreNumberHotCold(c, zodiac.Rat, []int{6, 18, 30, 42}), ShouldEqual, 50)
				So(scoreTailTrend(c, zodiac.Rat, []int{6, 18, 30, 42}), ShouldEqual, 50)
				So(scoreBigSmall(c, zodiac.Rat, []int{6, 18, 30, 42}), ShouldEqual, 50)
				So(scoreOddEven(c, zodiac.Rat, []int{6, 18, 30, 42}), ShouldEqual, 50)
				So(scorePrimeComposite(c, zodiac.Rat, []int{6, 18, 30, 42}), ShouldEqual, 50)
			})
		})
	})
}

func TestRelationDimensions(t *testing.T) {
	Convey("Given a window whose latest sign is the Rat", t, func() {
		c := ctxFor(winOf(zodiac.Rat))

		Convey("Then the relationship tables shape the score", func() {
			So(scoreRelationship(c, zodiac.Horse, nil), ShouldEqual, 30)
			So(scoreRelationship(c, zodiac.Ox, nil), ShouldEqual, 90)
			So(scoreRelationship(c, zodiac.Dragon, nil), ShouldEqual, 80)
			So(scoreRelationship(c, zodiac.Rat, nil), ShouldEqual, 80)
			So(scoreRelationship(c, zodiac.Snake, nil), ShouldEqual, 50)
		})

		Convey("Then the elemental cycles shape the score", func() {
			So(scoreFiveElements(c, zodiac.Tiger, nil), ShouldEqual, 90)
			So(scoreFiveElements(c, zodiac.Snake, nil), ShouldEqual, 20)
			So(scoreFiveElements(c, zodiac.Ox, nil), ShouldEqual, 50)
		})
	})

	Convey("Given recent specials all in the red wave", t, func() {
		c := ctxFor(winSpecials(1, 2, 7, 8, 12))

		Convey("Then lagging waves score and the hot wave does not", func() {
			So(scoreColorWave(c, zodiac.Rat, []int{3, 9}), ShouldEqual, 50)
			So(scoreColorWave(c, zodiac.Rat, []int{1, 2}), ShouldEqual, 0)
			So(scoreColorWave(c, zodiac.Rat, []int{1, 3}), ShouldEqual, 25)
		})
	})

	Convey("Given an empty window", t, func() {
		c := ctxFor(NewWindow(nil, 10))

		Convey("Then the relation dimensions are neutral", func() {
			So(scoreRelationship(c, zodiac.Rat, nil), ShouldEqual, 50)
			So(scoreFiveElements(c, zodiac.Rat, nil), ShouldEqual, 50)
			So(scoreColorWave(c, zodiac.Rat, []int{6, 18}), ShouldEqual, 50)
		})
	})
}

func TestMonteCarloAndFeedback(t *testing.T) {
	Convey("Given the Monte Carlo simulation", t, func() {
		win := winOf(zodiac.Signs()...)

		Convey("When run twice from the same stream", func() {
			a := simulate(win, subStream(42, streamMonteCarlo))
			b := simulate(win, subStream(42, streamMonteCarlo))

			Convey("Then the tallies are identical", func() {
				So(a, ShouldResemble, b)
			})

			Convey("And the wins sum to the iteration count", func() {
				var sum float64
				for _, v := range a {
					sum += v
				}
				So(sum, ShouldEqual, mcIterations)
			})
		})

		Convey("When the window is too short", func() {
			short := winOf(zodiac.Rat, zodiac.Ox)

			Convey("Then there is no simulation and the score is neutral", func() {
				mc := simulate(short, subStream(42, streamMonteCarlo))
				So(mc, ShouldBeNil)
				So(scoreMonteCarlo(&callCtx{win: short, mc: mc}, zodiac.Rat, nil), ShouldEqual, 50)
			})
		})
	})

	Convey("Given the repeat penalty feed", t, func() {
		Convey("Then the score steps down with each prior pick", func() {
			cases := []struct {
				picks int
				want  float64
			}{
				{0, 100}, {1, 60}, {2, 30}, {3, 0}, {5, 0},
			}
			for _, tc := range cases {
				recent := repeatSigns(zodiac.Rat, tc.picks)
				recent = append(recent, repeatSigns(zodiac.Tiger, 3)...)
				c := &callCtx{recent: recent}
				So(scoreRepeatPenalty(c, zodiac.Rat, nil), ShouldEqual, tc.want)
			}
		})

		Convey("Then an empty feed carries no penalty", func() {
			So(scoreRepeatPenalty(&callCtx{}, zodiac.Rat, nil), ShouldEqual, 100)
		})
	})
}
