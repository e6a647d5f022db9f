package stats_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/stats"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
	. "github.com/smartystreets/goconvey/convey"
)

// testDraw builds a valid draw for the period with the given special ball.
func testDraw(seq string, special int) model.Draw {
	balls := make([]int, 0, model.DrawNumbers)
	for n := 41; len(balls) < model.DrawNumbers-1; n++ {
		if n != special {
			balls = append(balls, n)
		}
	}
	balls = append(balls, special)

	d, err := model.NewDraw(seq, balls, time.Date(2024, 5, 1, 21, 32, 32, 0, time.UTC))
	if err != nil {
		panic(err)
	}
	return d
}

// window builds a most-recent-first window from specials listed newest
// first.
func window(specials ...int) []model.Draw {
	draws := make([]model.Draw, len(specials))
	for i, sp := range specials {
		draws[i] = testDraw(fmt.Sprintf("2024%03d", len(specials)-i), sp)
	}
	return draws
}

func TestFrequency(t *testing.T) {
	Convey("Given a window with repeated specials", t, func() {
		draws := window(25, 13, 25, 7, 13, 25, 31)

		Convey("When asking for the top numbers", func() {
			top := stats.Frequency(draws, 3)

			Convey("Then they come most frequent first", func() {
				So(top, ShouldResemble, []stats.NumberCount{
					{Number: 25, Count: 3},
					{Number: 13, Count: 2},
					{Number: 7, Count: 1},
				})
			})
		})

		Convey("When counts tie", func() {
			top := stats.Frequency(draws, 4)

			Convey("Then the lower number ranks first", func() {
				So(top[2], ShouldResemble, stats.NumberCount{Number: 7, Count: 1})
				So(top[3], ShouldResemble, stats.NumberCount{Number: 31, Count: 1})
			})
		})

		Convey("When the window is empty or the cut is zero", func() {
			So(stats.Frequency(nil, 10), ShouldBeNil)
			So(stats.Frequency(draws, 0), ShouldBeNil)
		})
	})
}

func TestDistribution(t *testing.T) {
	Convey("Given a window decided by two signs", t, func() {
		// 1, 13 and 25 belong to the snake sign, 5 to the ox sign.
		draws := window(1, 13, 5, 25)

		Convey("When computing the distribution", func() {
			shares := stats.Distribution(draws)

			Convey("Then every sign is present and shares sum to the window", func() {
				So(len(shares), ShouldEqual, zodiac.SignCount)

				total := 0
				for _, s := range shares {
					total += s.Count
				}
				So(total, ShouldEqual, len(draws))
			})

			Convey("And the largest share comes first", func() {
				So(shares[0].Sign, ShouldEqual, zodiac.Snake)
				So(shares[0].Count, ShouldEqual, 3)
				So(shares[0].Percentage, ShouldAlmostEqual, 75.0)
				So(shares[1].Sign, ShouldEqual, zodiac.Ox)
				So(shares[1].Percentage, ShouldAlmostEqual, 25.0)
			})

			Convey("And absent signs keep cycle order", func() {
				So(shares[2].Sign, ShouldEqual, zodiac.Rat)
				So(shares[2].Count, ShouldEqual, 0)
				So(shares[len(shares)-1].Sign, ShouldEqual, zodiac.Pig)
			})
		})

		Convey("When the window is empty", func() {
			shares := stats.Distribution(nil)

			Convey("Then all twelve signs report zero", func() {
				So(len(shares), ShouldEqual, zodiac.SignCount)
				So(shares[0].Sign, ShouldEqual, zodiac.Rat)
				So(shares[0].Count, ShouldEqual, 0)
				So(shares[0].Percentage, ShouldAlmostEqual, 0.0)
			})
		})
	})
}

func TestMissing(t *testing.T) {
	Convey("Given a window where most numbers never appear", t, func() {
		draws := window(25, 13, 25)

		Convey("When ranking by absence", func() {
			gaps := stats.Missing(draws, 5)

			Convey("Then fully absent numbers lead, lowest number first", func() {
				So(gaps, ShouldResemble, []stats.NumberGap{
					{Number: 1, Missing: 3},
					{Number: 2, Missing: 3},
					{Number: 3, Missing: 3},
					{Number: 4, Missing: 3},
					{Number: 5, Missing: 3},
				})
			})
		})

		Convey("When asking for the full ranking", func() {
			gaps := stats.Missing(draws, 49)

			Convey("Then appeared numbers rank by their last appearance", func() {
				So(len(gaps), ShouldEqual, 49)
				So(gaps[47], ShouldResemble, stats.NumberGap{Number: 13, Missing: 1})
				So(gaps[48], ShouldResemble, stats.NumberGap{Number: 25, Missing: 0})
			})
		})

		Convey("When the window is empty", func() {
			So(stats.Missing(nil, 15), ShouldBeNil)
		})
	})
}

func TestHotColdNumbers(t *testing.T) {
	Convey("Given a sparse window", t, func() {
		draws := window(49, 37, 25, 13, 1)

		Convey("When computing extremes", func() {
			hc := stats.HotColdNumbers(draws, 5)

			Convey("Then hot numbers are the appeared ones", func() {
				So(hc.Hot, ShouldResemble, []stats.NumberCount{
					{Number: 1, Count: 1},
					{Number: 13, Count: 1},
					{Number: 25, Count: 1},
					{Number: 37, Count: 1},
					{Number: 49, Count: 1},
				})
			})

			Convey("And cold numbers are the lowest absent ones", func() {
				So(hc.Cold, ShouldResemble, []stats.NumberCount{
					{Number: 2}, {Number: 3}, {Number: 4}, {Number: 5}, {Number: 6},
				})
			})
		})
	})

	Convey("Given a window covering almost every number", t, func() {
		specials := make([]int, 0, 48)
		for n := 1; n <= 47; n++ {
			specials = append(specials, n)
		}
		specials = append(specials, 1) // 1 appears twice
		draws := window(specials...)

		Convey("When more cold slots than absent numbers are requested", func() {
			hc := stats.HotColdNumbers(draws, 4)

			Convey("Then the least frequent appeared numbers pad the list", func() {
				So(hc.Cold, ShouldResemble, []stats.NumberCount{
					{Number: 48, Count: 0},
					{Number: 49, Count: 0},
					{Number: 2, Count: 1},
					{Number: 3, Count: 1},
				})
			})

			Convey("And the double appearance leads the hot list", func() {
				So(hc.Hot[0], ShouldResemble, stats.NumberCount{Number: 1, Count: 2})
			})
		})
	})

	Convey("Given no window", t, func() {
		So(stats.HotColdNumbers(nil, 10), ShouldResemble, stats.HotCold{})
	})
}

func TestDetailOf(t *testing.T) {
	Convey("Given a window decided by two signs", t, func() {
		// Snake at depths 0 and 2, ox at depths 1 and 3.
		draws := window(49, 5, 13, 17)

		Convey("When detailing a sign that appeared", func() {
			detail, err := stats.DetailOf(draws, zodiac.Snake)

			Convey("Then count and depths are reported", func() {
				So(err, ShouldBeNil)
				So(detail.Count, ShouldEqual, 2)
				So(detail.CurrentMissing, ShouldEqual, 0)
				So(detail.MaxMissing, ShouldEqual, 2)
				So(detail.AvgMissing, ShouldAlmostEqual, 1.0)
				So(detail.Percentage, ShouldAlmostEqual, 50.0)
			})
		})

		Convey("When detailing the other sign", func() {
			detail, err := stats.DetailOf(draws, zodiac.Ox)

			Convey("Then its depths shift by one", func() {
				So(err, ShouldBeNil)
				So(detail.CurrentMissing, ShouldEqual, 1)
				So(detail.MaxMissing, ShouldEqual, 3)
				So(detail.AvgMissing, ShouldAlmostEqual, 2.0)
			})
		})

		Convey("When detailing an absent sign", func() {
			detail, err := stats.DetailOf(draws, zodiac.Tiger)

			Convey("Then all depths report the window length", func() {
				So(err, ShouldBeNil)
				So(detail.Count, ShouldEqual, 0)
				So(detail.CurrentMissing, ShouldEqual, len(draws))
				So(detail.MaxMissing, ShouldEqual, len(draws))
				So(detail.AvgMissing, ShouldAlmostEqual, float64(len(draws)))
				So(detail.Percentage, ShouldAlmostEqual, 0.0)
			})
		})

		Convey("When detailing an unknown sign", func() {
			_, err := stats.DetailOf(draws, zodiac.Sign("nope"))

			Convey("Then it fails", func() {
				So(err, ShouldWrap, zodiac.ErrUnknownSign)
			})
		})

		Convey("When the window is empty", func() {
			detail, err := stats.DetailOf(nil, zodiac.Snake)

			Convey("Then everything is zero", func() {
				So(err, ShouldBeNil)
				So(detail, ShouldResemble, stats.SignDetail{Sign: zodiac.Snake})
			})
		})
	})
}
