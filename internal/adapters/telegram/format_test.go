package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/stats"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

func mustDraw(t *testing.T, seq string, numbers []int) model.Draw {
	t.Helper()
	d, err := model.NewDraw(seq, numbers, time.Date(2024, 5, 1, 21, 32, 32, 0, time.UTC))
	if err != nil {
		t.Fatalf("build draw %s: %v", seq, err)
	}
	return d
}

func samplePicks() []model.Pick {
	dragon, _ := zodiac.Members(zodiac.Dragon)
	horse, _ := zodiac.Members(zodiac.Horse)
	return []model.Pick{
		{Sign: zodiac.Dragon, Numbers: dragon, Score: 85.5},
		{Sign: zodiac.Horse, Numbers: horse, Score: 61.2},
	}
}

func TestTruncate(t *testing.T) {
	convey.Convey("Given message bodies around the platform limit", t, func() {
		convey.Convey("Short text passes through unchanged", func() {
			convey.So(truncate("hello"), convey.ShouldEqual, "hello")
		})

		convey.Convey("Long ASCII text is cut to the limit", func() {
			long := strings.Repeat("a", messageLimit+100)
			got := truncate(long)
			convey.So(len(got), convey.ShouldEqual, messageLimit)
		})

		convey.Convey("Multibyte text is cut on rune boundaries", func() {
			long := strings.Repeat("码", messageLimit+100)
			got := truncate(long)
			convey.So(len([]rune(got)), convey.ShouldEqual, messageLimit)
			convey.So(strings.HasSuffix(got, "码"), convey.ShouldBeTrue)
		})
	})
}

func TestCountdown(t *testing.T) {
	convey.Convey("Given wall clocks around the draw time", t, func() {
		at := func(hour, minute, sec int) time.Time {
			return time.Date(2024, 5, 1, hour, minute, sec, 0, time.UTC)
		}

		convey.Convey("Before the draw it counts down same-day", func() {
			convey.So(Countdown(at(20, 32, 32)), convey.ShouldEqual, "01:00:00")
			convey.So(Countdown(at(21, 32, 31)), convey.ShouldEqual, "00:00:01")
		})

		convey.Convey("At or after the draw it targets tomorrow", func() {
			convey.So(Countdown(at(21, 32, 32)), convey.ShouldEqual, "24:00:00")
			convey.So(Countdown(at(21, 32, 33)), convey.ShouldEqual, "23:59:59")
			convey.So(Countdown(at(23, 32, 32)), convey.ShouldEqual, "22:00:00")
		})
	})
}

func TestStars(t *testing.T) {
	convey.Convey("Scores map to a five-star scale", t, func() {
		convey.So(stars(100), convey.ShouldEqual, "⭐⭐⭐⭐⭐")
		convey.So(stars(85.5), convey.ShouldEqual, "⭐⭐⭐⭐")
		convey.So(stars(40), convey.ShouldEqual, "⭐⭐")
		convey.So(stars(19.9), convey.ShouldEqual, "")
		convey.So(stars(-5), convey.ShouldEqual, "")
	})
}

func TestFormatNumbers(t *testing.T) {
	convey.Convey("Ball numbers render zero-padded", t, func() {
		convey.So(formatNumbers([]int{1, 13, 25}), convey.ShouldEqual, "01, 13, 25")
		convey.So(formatNumbers(nil), convey.ShouldEqual, "")
	})
}

func TestPredictionText(t *testing.T) {
	convey.Convey("Given a fresh two-pick prediction", t, func() {
		rec := model.PredictionRecord{
			Seq:       "2024131",
			Picks:     samplePicks(),
			CreatedAt: time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC),
		}
		details := []stats.SignDetail{
			{Sign: zodiac.Dragon, Count: 7, CurrentMissing: 2, MaxMissing: 11, AvgMissing: 4.3, Percentage: 14.0},
			{Sign: zodiac.Horse, Count: 5, CurrentMissing: 0, MaxMissing: 13, AvgMissing: 6.1, Percentage: 10.0},
		}

		convey.Convey("Without settled predictions the hit block is omitted", func() {
			text := predictionText(rec, details, 50, model.HitStats{}, "03:32:32")

			convey.So(text, convey.ShouldContainSubstring, "AI 生肖预测（2024131期）")
			convey.So(text, convey.ShouldContainSubstring, "推荐生肖一：🐉龙")
			convey.So(text, convey.ShouldContainSubstring, "推荐生肖二：🐴马")
			convey.So(text, convey.ShouldContainSubstring, "85.5/100 ⭐⭐⭐⭐")
			convey.So(text, convey.ShouldContainSubstring, "02, 14, 26, 38")
			convey.So(text, convey.ShouldContainSubstring, "出现次数：7次/50期")
			convey.So(text, convey.ShouldContainSubstring, "当前遗漏：2期")
			convey.So(text, convey.ShouldContainSubstring, "03:32:32")
			convey.So(text, convey.ShouldNotContainSubstring, "历史命中率统计")
		})

		convey.Convey("With settled predictions the hit block renders", func() {
			st := model.HitStats{
				Overall: model.HitRate{Total: 20, Hits: 9, Rate: 45.0},
				Last10:  model.HitRate{Total: 10, Hits: 5, Rate: 50.0},
				Last5:   model.HitRate{Total: 5, Hits: 2, Rate: 40.0},
			}
			text := predictionText(rec, details, 50, st, "03:32:32")

			convey.So(text, convey.ShouldContainSubstring, "历史命中率统计")
			convey.So(text, convey.ShouldContainSubstring, "总命中率：45.0%")
			convey.So(text, convey.ShouldContainSubstring, "近10期表现:5/10 = 50.0%")
			convey.So(text, convey.ShouldContainSubstring, "近5期表现:2/5 = 40.0%")
		})
	})
}

func TestExistingPredictionText(t *testing.T) {
	convey.Convey("Given a locked prediction", t, func() {
		rec := model.PredictionRecord{
			Seq:       "2024131",
			Picks:     samplePicks(),
			CreatedAt: time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC),
		}

		convey.Convey("Before the draw it shows the lock notice", func() {
			text := existingPredictionText(rec, "03:32:32")

			convey.So(text, convey.ShouldContainSubstring, "已预测（已锁定）")
			convey.So(text, convey.ShouldContainSubstring, "🥇 🐉龙")
			convey.So(text, convey.ShouldContainSubstring, "开奖后将自动对比预测结果")
		})

		convey.Convey("A verified hit shows its rank", func() {
			rec.Outcome = &model.Outcome{Special: 48, Sign: zodiac.Horse, Hit: true, Rank: 2}
			text := existingPredictionText(rec, "03:32:32")

			convey.So(text, convey.ShouldContainSubstring, "开奖结果对比")
			convey.So(text, convey.ShouldContainSubstring, "实际开出：<b>48</b> 🐴马")
			convey.So(text, convey.ShouldContainSubstring, "TOP2 生肖预测命中")
		})

		convey.Convey("A verified miss says so", func() {
			rec.Outcome = &model.Outcome{Special: 42, Sign: zodiac.Rat, Hit: false}
			text := existingPredictionText(rec, "03:32:32")

			convey.So(text, convey.ShouldContainSubstring, "很遗憾，本期预测未中")
		})
	})
}

func TestPredictionHistoryText(t *testing.T) {
	convey.Convey("Given recent prediction records", t, func() {
		convey.Convey("No records renders the empty notice", func() {
			text := predictionHistoryText(nil, model.HitStats{})
			convey.So(text, convey.ShouldContainSubstring, "暂无预测历史记录")
		})

		convey.Convey("Records render one line each with their outcome", func() {
			records := []model.PredictionRecord{
				{
					Seq:     "2024131",
					Picks:   samplePicks(),
					Outcome: &model.Outcome{Special: 26, Sign: zodiac.Dragon, Hit: true, Rank: 1},
				},
				{
					Seq:     "2024130",
					Picks:   samplePicks(),
					Outcome: &model.Outcome{Special: 42, Sign: zodiac.Rat, Hit: false},
				},
				{Seq: "2024129", Picks: samplePicks()},
			}
			st := model.HitStats{Overall: model.HitRate{Total: 2, Hits: 1, Rate: 50.0}}

			text := predictionHistoryText(records, st)

			convey.So(text, convey.ShouldContainSubstring, "总命中率：50.0%")
			convey.So(text, convey.ShouldContainSubstring, "✅ TOP1命中（🐉龙）")
			convey.So(text, convey.ShouldContainSubstring, "❌ 未中（🐭鼠）")
			convey.So(text, convey.ShouldContainSubstring, "⏳ 待开奖")
		})
	})
}

func TestDrawTexts(t *testing.T) {
	convey.Convey("Given a stored draw", t, func() {
		d := mustDraw(t, "2024131", []int{5, 15, 24, 33, 42, 7, 49})

		convey.Convey("The latest-result view shows balls, special and sign", func() {
			text := latestResultText(d, "03:32:32")

			convey.So(text, convey.ShouldContainSubstring, "期号：</b>2024131")
			convey.So(text, convey.ShouldContainSubstring, "05, 15, 24, 33, 42, 07")
			convey.So(text, convey.ShouldContainSubstring, "特码：</b><code>49</code>")
			convey.So(text, convey.ShouldContainSubstring, "🐍蛇")
		})

		convey.Convey("The history view lists one line per draw", func() {
			text := historyText([]model.Draw{d})

			convey.So(text, convey.ShouldContainSubstring, "最近1期")
			convey.So(text, convey.ShouldContainSubstring, "特:<b>49</b> 🐍蛇")
		})

		convey.Convey("An empty history renders the empty notice", func() {
			convey.So(historyText(nil), convey.ShouldContainSubstring, "暂无历史数据")
		})
	})
}

func TestFormatResult(t *testing.T) {
	convey.Convey("Given a fresh draw push", t, func() {
		d := mustDraw(t, "2024131", []int{5, 15, 24, 33, 42, 7, 49})

		convey.Convey("Without a prediction it announces the result only", func() {
			text := FormatResult(d, nil, model.HitStats{})

			convey.So(text, convey.ShouldContainSubstring, "【新开奖结果】")
			convey.So(text, convey.ShouldContainSubstring, "特码：49")
			convey.So(text, convey.ShouldContainSubstring, "🐍蛇")
			convey.So(text, convey.ShouldNotContainSubstring, "AI 预测对比")
		})

		convey.Convey("A verified hit shows the comparison and the rates", func() {
			rec := &model.PredictionRecord{
				Seq:     "2024131",
				Picks:   []model.Pick{{Sign: zodiac.Snake, Score: 90}, {Sign: zodiac.Horse, Score: 60}},
				Outcome: &model.Outcome{Special: 49, Sign: zodiac.Snake, Hit: true, Rank: 1},
			}
			st := model.HitStats{
				Overall: model.HitRate{Total: 10, Hits: 6, Rate: 60.0},
				Last10:  model.HitRate{Total: 10, Hits: 6, Rate: 60.0},
			}

			text := FormatResult(d, rec, st)

			convey.So(text, convey.ShouldContainSubstring, "AI 预测对比")
			convey.So(text, convey.ShouldContainSubstring, "预测：🐍蛇 + 🐴马")
			convey.So(text, convey.ShouldContainSubstring, "预测命中！TOP1 生肖正确")
			convey.So(text, convey.ShouldContainSubstring, "总命中率：60.0%")
		})

		convey.Convey("A verified miss is reported without rates", func() {
			rec := &model.PredictionRecord{
				Seq:     "2024131",
				Picks:   samplePicks(),
				Outcome: &model.Outcome{Special: 49, Sign: zodiac.Snake, Hit: false},
			}

			text := FormatResult(d, rec, model.HitStats{})

			convey.So(text, convey.ShouldContainSubstring, "很遗憾，本期预测未中")
			convey.So(text, convey.ShouldNotContainSubstring, "命中率统计")
		})

		convey.Convey("An unverified prediction adds no comparison", func() {
			rec := &model.PredictionRecord{Seq: "2024131", Picks: samplePicks()}
			text := FormatResult(d, rec, model.HitStats{})

			convey.So(text, convey.ShouldNotContainSubstring, "AI 预测对比")
		})
	})
}

func TestPushTexts(t *testing.T) {
	convey.Convey("Push notification bodies", t, func() {
		convey.Convey("The auto-predict push lists picks with scores", func() {
			rec := model.PredictionRecord{Seq: "2024132", Picks: samplePicks()}
			text := FormatPredictionPush(rec, "02:10:00")

			convey.So(text, convey.ShouldContainSubstring, "自动预测（2024132期）")
			convey.So(text, convey.ShouldContainSubstring, "🥇 🐉龙  85.5分 ⭐⭐⭐⭐")
			convey.So(text, convey.ShouldContainSubstring, "02:10:00")
		})

		convey.Convey("The reminder push carries the countdown", func() {
			text := FormatReminder("00:32:32")

			convey.So(text, convey.ShouldContainSubstring, "开奖提醒")
			convey.So(text, convey.ShouldContainSubstring, "00:32:32")
			convey.So(text, convey.ShouldContainSubstring, "/predict")
		})
	})
}

func TestAnalysisTexts(t *testing.T) {
	convey.Convey("Analysis view bodies", t, func() {
		convey.Convey("Frequency lists ranked numbers with sign labels", func() {
			counts := []stats.NumberCount{{Number: 25, Count: 4}, {Number: 7, Count: 2}}
			text := frequencyText(counts, 50)

			convey.So(text, convey.ShouldContainSubstring, "频率分析（最近50期）")
			convey.So(text, convey.ShouldContainSubstring, "1. <b>25</b> 🐍蛇 - 4次 (8.0%)")
			convey.So(text, convey.ShouldContainSubstring, "2. <b>07</b> 🐖猪 - 2次 (4.0%)")
		})

		convey.Convey("Missing marks gaps covering the whole window", func() {
			gaps := []stats.NumberGap{{Number: 3, Missing: 50}, {Number: 25, Missing: 12}}
			text := missingText(gaps, 50)

			convey.So(text, convey.ShouldContainSubstring, "<b>03</b> 🐰兔 - 未出现")
			convey.So(text, convey.ShouldContainSubstring, "<b>25</b> 🐍蛇 - 12期")
		})

		convey.Convey("Distribution renders every sign's share", func() {
			shares := []stats.SignShare{
				{Sign: zodiac.Snake, Count: 3, Percentage: 75.0},
				{Sign: zodiac.Ox, Count: 1, Percentage: 25.0},
			}
			text := distributionText(shares, 4)

			convey.So(text, convey.ShouldContainSubstring, "生肖分布（最近4期）")
			convey.So(text, convey.ShouldContainSubstring, "🐍<b>蛇</b> - 3次 (75.0%)")
		})

		convey.Convey("Hot and cold numbers render in two blocks", func() {
			hc := stats.HotCold{
				Hot:  []stats.NumberCount{{Number: 25, Count: 5}},
				Cold: []stats.NumberCount{{Number: 2, Count: 0}},
			}
			text := hotColdText(hc, 30)

			convey.So(text, convey.ShouldContainSubstring, "🔥 <b>热号 Top 1：</b>")
			convey.So(text, convey.ShouldContainSubstring, "❄️ <b>冷号 Top 1：</b>")
			convey.So(text, convey.ShouldContainSubstring, "<b>02</b> 🐉龙 - 0次")
		})

		convey.Convey("Empty windows render the empty notice", func() {
			convey.So(frequencyText(nil, 0), convey.ShouldContainSubstring, "暂无历史数据")
			convey.So(missingText(nil, 0), convey.ShouldContainSubstring, "暂无历史数据")
			convey.So(hotColdText(stats.HotCold{}, 0), convey.ShouldContainSubstring, "暂无历史数据")
		})
	})
}

func TestSettingsText(t *testing.T) {
	convey.Convey("Settings render each toggle's state", t, func() {
		u := model.UserSettings{ChatID: 7, Notify: true, Window: 100}
		text := settingsText(u)

		convey.So(text, convey.ShouldContainSubstring, "开奖通知：</b>✅ 已开启")
		convey.So(text, convey.ShouldContainSubstring, "开奖提醒：</b>❌ 已关闭")
		convey.So(text, convey.ShouldContainSubstring, "分析窗口：</b>100期")
	})
}
