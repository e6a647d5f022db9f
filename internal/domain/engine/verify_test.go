package engine_test

import (
	"testing"
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/engine"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
	. "github.com/smartystreets/goconvey/convey"
)

func TestVerify(t *testing.T) {
	Convey("Given a prediction awaiting its period's draw", t, func() {
		rec := model.PredictionRecord{
			Seq: "2024144",
			Picks: []model.Pick{
				{Sign: zodiac.Snake, Numbers: []int{1, 13, 25, 37, 49}, Score: 82.4},
				{Sign: zodiac.Dragon, Numbers: []int{2, 14, 26, 38}, Score: 77.9},
			},
		}
		at := time.Date(2024, 5, 23, 21, 35, 0, 0, time.UTC)

		Convey("When the special lands on the top pick", func() {
			out, err := engine.Verify(rec, testDraw("2024144", 49), at)
			So(err, ShouldBeNil)

			Convey("Then it is a rank-one hit", func() {
				So(out.Hit, ShouldBeTrue)
				So(out.Rank, ShouldEqual, 1)
				So(out.Sign, ShouldEqual, zodiac.Snake)
				So(out.Special, ShouldEqual, 49)
				So(out.VerifiedAt, ShouldEqual, at)
			})
		})

		Convey("When the special lands on the second pick", func() {
			out, err := engine.Verify(rec, testDraw("2024144", 14), at)
			So(err, ShouldBeNil)

			Convey("Then it is a rank-two hit", func() {
				So(out.Hit, ShouldBeTrue)
				So(out.Rank, ShouldEqual, 2)
				So(out.Sign, ShouldEqual, zodiac.Dragon)
			})
		})

		Convey("When the special lands outside the picks", func() {
			out, err := engine.Verify(rec, testDraw("2024144", 8), at)
			So(err, ShouldBeNil)

			Convey("Then it is a miss with no rank", func() {
				So(out.Hit, ShouldBeFalse)
				So(out.Rank, ShouldEqual, 0)
				So(out.Sign, ShouldEqual, zodiac.Dog)
			})
		})

		Convey("When the draw belongs to another period", func() {
			_, err := engine.Verify(rec, testDraw("2024145", 49), at)
			So(err, ShouldWrap, engine.ErrSeqMismatch)
		})

		Convey("When the draw carries no recognizable sign", func() {
			bad := model.Draw{Seq: "2024144", Special: 50}
			_, err := engine.Verify(rec, bad, at)
			So(err, ShouldWrap, zodiac.ErrUnknownSign)
		})
	})
}
