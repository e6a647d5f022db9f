package telegram

import (
	"fmt"
	"strings"
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/stats"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

// messageLimit is the Telegram hard cap on message length.
const messageLimit = 4096

const (
	separator   = "━━━━━━━━━━━━━━━━━━━━━"
	drawTimeDay = "21:32:32"

	timeLayout = "2006-01-02 15:04:05"
)

// truncate cuts a message to the platform limit without splitting a rune.
func truncate(s string) string {
	if len(s) <= messageLimit {
		return s
	}
	runes := []rune(s)
	if len(runes) > messageLimit {
		runes = runes[:messageLimit]
	}
	return string(runes)
}

// Countdown formats the time remaining until the next draw. now must
// already be in the draw zone.
func Countdown(now time.Time) string {
	target := time.Date(now.Year(), now.Month(), now.Day(), 21, 32, 32, 0, now.Location())
	if !now.Before(target) {
		target = target.Add(24 * time.Hour)
	}
	diff := target.Sub(now)

	hours := int(diff.Hours())
	minutes := int(diff.Minutes()) % 60
	seconds := int(diff.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}

// stars renders a five-star rating for a 0..100 score.
func stars(score float64) string {
	n := int(score / 20)
	if n > 5 {
		n = 5
	}
	if n < 0 {
		n = 0
	}
	return strings.Repeat("⭐", n)
}

func bar(n int) string {
	if n < 0 {
		n = 0
	}
	if n > 40 {
		n = 40
	}
	return strings.Repeat("█", n)
}

func signLabel(s zodiac.Sign) string {
	return zodiac.Emoji(s) + string(s)
}

func formatNumbers(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, ", ")
}

func onOff(enabled bool) string {
	if enabled {
		return "✅ 已开启"
	}
	return "❌ 已关闭"
}

func welcomeText(name, cd string) string {
	var b strings.Builder
	b.WriteString("🎰 <b>澳门六合彩预测机器人</b> 🎰\n\n")
	fmt.Fprintf(&b, "👋 欢迎，%s！\n\n", name)
	fmt.Fprintf(&b, "📅 今日开奖倒计时：<code>%s</code>\n", cd)
	fmt.Fprintf(&b, "⏰ 开奖时间：每晚 %s\n\n", drawTimeDay)
	b.WriteString("✨ <b>功能导航</b> ✨\n")
	b.WriteString("• 🎯 智能预测 - AI预测生肖TOP2\n")
	b.WriteString("• 📊 最新开奖 - 查看最新结果\n")
	b.WriteString("• 📈 数据分析 - 频率/生肖/冷热分析\n")
	b.WriteString("• 📜 历史记录 - 查询历史开奖\n")
	b.WriteString("• ⚙️ 个人设置 - 通知提醒设置\n\n")
	b.WriteString("⚠️ <b>免责声明</b>\n")
	b.WriteString("本机器人仅供娱乐和学习参考，预测结果不构成任何投资建议。\n\n")
	b.WriteString("请选择功能：")
	return b.String()
}

func predictMenuText(next, cd string, predicted bool) string {
	status := "未预测"
	if predicted {
		status = "✅ 已预测（已锁定）"
	}

	var b strings.Builder
	b.WriteString("🎯 <b>智能预测菜单</b>\n\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "📅 下期期号：%s\n", next)
	fmt.Fprintf(&b, "⏰ 开奖倒计时：%s\n\n", cd)
	b.WriteString(separator + "\n")
	b.WriteString("🔮 <b>AI 生肖预测（TOP 2）</b>\n\n")
	b.WriteString("基于多维度分析预测最可能的生肖：\n")
	b.WriteString("频率、遗漏、周期、冷热、号码属性等十八个维度综合评分\n\n")
	fmt.Fprintf(&b, "📊 预测状态：%s\n\n", status)
	b.WriteString("⚠️ 预测仅供参考，不保证准确性")
	return b.String()
}

// predictionText renders a ranked prediction with its analysis detail.
// details carries one entry per pick, in pick order; window is the
// analyzed history length.
func predictionText(rec model.PredictionRecord, details []stats.SignDetail, window int, st model.HitStats, cd string) string {
	medals := []string{"🥇", "🥈", "🥉"}
	labels := []string{"一", "二", "三"}

	var b strings.Builder
	fmt.Fprintf(&b, "🔮 <b>AI 生肖预测（%s期）</b>\n\n", rec.Seq)
	b.WriteString(separator + "\n")
	if !rec.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "⏰ 预测时间：%s\n", rec.CreatedAt.Format(timeLayout))
	}
	fmt.Fprintf(&b, "📊 开奖倒计时：%s\n", cd)
	fmt.Fprintf(&b, "📈 分析期数：%d期\n", window)

	for i, pick := range rec.Picks {
		medal := fmt.Sprintf("%d.", i+1)
		label := fmt.Sprintf("%d", i+1)
		if i < len(medals) {
			medal = medals[i]
			label = labels[i]
		}

		b.WriteString("\n" + separator + "\n")
		fmt.Fprintf(&b, "%s <b>推荐生肖%s：%s</b>\n\n", medal, label, signLabel(pick.Sign))
		fmt.Fprintf(&b, "📊 综合评分：%.1f/100 %s\n", pick.Score, stars(pick.Score))

		if i < len(details) {
			d := details[i]
			b.WriteString("\n🔍 <b>分析依据：</b>\n")
			fmt.Fprintf(&b, "✅ 出现次数：%d次/%d期\n", d.Count, window)
			fmt.Fprintf(&b, "✅ 当前遗漏：%d期\n", d.CurrentMissing)
			fmt.Fprintf(&b, "✅ 最大遗漏：%d期\n", d.MaxMissing)
			fmt.Fprintf(&b, "✅ 平均遗漏：%.1f期\n", d.AvgMissing)
			fmt.Fprintf(&b, "✅ 出现频率：%.1f%%\n", d.Percentage)
		}

		fmt.Fprintf(&b, "\n🎯 <b>对应号码：</b>%s\n", formatNumbers(pick.Numbers))
	}

	b.WriteString("\n" + separator + "\n")
	if st.Overall.Total > 0 {
		b.WriteString("📊 <b>历史命中率统计</b>\n\n")
		fmt.Fprintf(&b, "总预测次数：%d期\n", st.Overall.Total)
		fmt.Fprintf(&b, "命中次数：%d期\n", st.Overall.Hits)
		fmt.Fprintf(&b, "总命中率：%.1f%% 📈\n", st.Overall.Rate)
		if st.Last10.Total > 0 {
			fmt.Fprintf(&b, "近10期表现:%d/%d = %.1f%%\n", st.Last10.Hits, st.Last10.Total, st.Last10.Rate)
		}
		if st.Last5.Total > 0 {
			fmt.Fprintf(&b, "近5期表现:%d/%d = %.1f%%\n", st.Last5.Hits, st.Last5.Total, st.Last5.Rate)
		}
		b.WriteString("\n" + separator + "\n")
	}
	b.WriteString("⚠️ 本期预测已锁定，开奖后自动对比结果\n\n")
	b.WriteString("💡 <i>预测仅供参考，请理性对待</i>")
	return b.String()
}

// existingPredictionText renders a locked prediction, with the outcome
// comparison once the draw is known.
func existingPredictionText(rec model.PredictionRecord, cd string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔮 <b>AI 生肖预测（%s期）</b>\n\n", rec.Seq)
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "⏰ 开奖倒计时：%s\n\n", cd)
	b.WriteString("📊 本期预测状态：<b>✅ 已预测（已锁定）</b>\n\n")
	b.WriteString(separator + "\n")
	b.WriteString("🎯 <b>本期预测结果</b>\n\n")

	medals := []string{"🥇", "🥈", "🥉"}
	for i, pick := range rec.Picks {
		medal := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			medal = medals[i]
		}
		fmt.Fprintf(&b, "%s %s (%s)\n", medal, signLabel(pick.Sign), formatNumbers(pick.Numbers))
	}

	if !rec.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "\n📅 预测时间：%s\n", rec.CreatedAt.Format(timeLayout))
	}

	if rec.Verified() {
		out := rec.Outcome
		b.WriteString("\n" + separator + "\n")
		b.WriteString("🎰 <b>开奖结果对比</b>\n\n")
		fmt.Fprintf(&b, "实际开出：<b>%02d</b> %s\n\n", out.Special, signLabel(out.Sign))
		if out.Hit {
			fmt.Fprintf(&b, "🎉 <b>TOP%d 生肖预测命中！</b> ✅\n", out.Rank)
		} else {
			b.WriteString("💔 <b>很遗憾，本期预测未中</b>\n")
		}
	} else {
		b.WriteString("\n💡 提示：开奖后将自动对比预测结果")
	}
	return b.String()
}

func predictionHistoryText(records []model.PredictionRecord, st model.HitStats) string {
	var b strings.Builder
	b.WriteString("📊 <b>预测历史记录</b>\n\n")
	b.WriteString(separator + "\n")

	if len(records) == 0 {
		b.WriteString("暂无预测历史记录\n\n请先进行预测后查看")
		return b.String()
	}

	b.WriteString("📈 <b>总体统计</b>\n\n")
	fmt.Fprintf(&b, "总预测次数：%d期\n", st.Overall.Total)
	fmt.Fprintf(&b, "命中次数：%d期\n", st.Overall.Hits)
	fmt.Fprintf(&b, "总命中率：%.1f%% 📈\n", st.Overall.Rate)
	if st.Last10.Total > 0 {
		fmt.Fprintf(&b, "近10期表现:%d/%d = %.1f%%\n", st.Last10.Hits, st.Last10.Total, st.Last10.Rate)
	}
	if st.Last5.Total > 0 {
		fmt.Fprintf(&b, "近5期表现:%d/%d = %.1f%%\n", st.Last5.Hits, st.Last5.Total, st.Last5.Rate)
	}

	b.WriteString("\n" + separator + "\n")
	b.WriteString("📅 <b>最近预测记录</b>\n\n")
	for _, rec := range records {
		picks := make([]string, 0, len(rec.Picks))
		for _, p := range rec.Picks {
			picks = append(picks, signLabel(p.Sign))
		}

		result := "⏳ 待开奖"
		if rec.Verified() {
			out := rec.Outcome
			if out.Hit {
				result = fmt.Sprintf("✅ TOP%d命中（%s）", out.Rank, signLabel(out.Sign))
			} else {
				result = fmt.Sprintf("❌ 未中（%s）", signLabel(out.Sign))
			}
		}
		fmt.Fprintf(&b, "%s  预测:%s  %s\n", rec.Seq, strings.Join(picks, ""), result)
	}
	return b.String()
}

func latestResultText(d model.Draw, cd string) string {
	var b strings.Builder
	b.WriteString("📊 <b>最新开奖结果</b>\n\n")
	fmt.Fprintf(&b, "<b>期号：</b>%s\n", d.Seq)
	fmt.Fprintf(&b, "<b>开奖时间：</b>%s\n\n", d.OpenTime.Format(timeLayout))
	fmt.Fprintf(&b, "<b>号码：</b><code>%s</code>\n", formatNumbers(d.Numbers[:6]))
	fmt.Fprintf(&b, "<b>特码：</b><code>%02d</code> 🎯\n\n", d.Special)
	fmt.Fprintf(&b, "<b>生肖：</b>%s\n\n", signLabel(d.SpecialSign))
	fmt.Fprintf(&b, "⏰ 下期开奖倒计时：<code>%s</code>", cd)
	return b.String()
}

func historyText(draws []model.Draw) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📜 <b>历史开奖记录（最近%d期）</b>\n\n", len(draws))

	if len(draws) == 0 {
		b.WriteString("暂无历史数据")
		return b.String()
	}

	for _, d := range draws {
		fmt.Fprintf(&b, "<b>%s</b>  <code>%s</code>  特:<b>%02d</b> %s\n",
			d.Seq, formatNumbers(d.Numbers[:6]), d.Special, signLabel(d.SpecialSign))
	}
	return b.String()
}

func frequencyText(counts []stats.NumberCount, window int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 <b>频率分析（最近%d期）</b>\n\n", window)

	if len(counts) == 0 {
		b.WriteString("暂无历史数据")
		return b.String()
	}

	fmt.Fprintf(&b, "<b>Top %d 高频号码：</b>\n\n", len(counts))
	for i, nc := range counts {
		sign, _, _ := zodiac.SignOf(nc.Number)
		pct := float64(nc.Count) / float64(window) * 100
		fmt.Fprintf(&b, "%d. <b>%02d</b> %s - %d次 (%.1f%%)\n", i+1, nc.Number, signLabel(sign), nc.Count, pct)
		fmt.Fprintf(&b, "   %s\n", bar(int(pct*2)))
	}
	return b.String()
}

func distributionText(shares []stats.SignShare, window int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🐲 <b>生肖分布（最近%d期）</b>\n\n", window)

	for _, s := range shares {
		fmt.Fprintf(&b, "%s<b>%s</b> - %d次 (%.1f%%)\n", zodiac.Emoji(s.Sign), string(s.Sign), s.Count, s.Percentage)
		fmt.Fprintf(&b, "%s\n", bar(int(s.Percentage/2)))
	}
	return b.String()
}

func missingText(gaps []stats.NumberGap, window int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏱ <b>遗漏分析（最近%d期）</b>\n\n", window)

	if len(gaps) == 0 {
		b.WriteString("暂无历史数据")
		return b.String()
	}

	fmt.Fprintf(&b, "<b>Top %d 遗漏号码：</b>\n\n", len(gaps))
	for i, g := range gaps {
		sign, _, _ := zodiac.SignOf(g.Number)
		status := fmt.Sprintf("%d期", g.Missing)
		if g.Missing >= window {
			status = "未出现"
		}
		fmt.Fprintf(&b, "%d. <b>%02d</b> %s - %s\n", i+1, g.Number, signLabel(sign), status)
	}
	return b.String()
}

func hotColdText(hc stats.HotCold, window int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🌡 <b>冷热分析（最近%d期）</b>\n\n", window)

	if len(hc.Hot) == 0 && len(hc.Cold) == 0 {
		b.WriteString("暂无历史数据")
		return b.String()
	}

	fmt.Fprintf(&b, "🔥 <b>热号 Top %d：</b>\n", len(hc.Hot))
	for i, nc := range hc.Hot {
		sign, _, _ := zodiac.SignOf(nc.Number)
		fmt.Fprintf(&b, "%d. <b>%02d</b> %s - %d次\n", i+1, nc.Number, signLabel(sign), nc.Count)
	}

	fmt.Fprintf(&b, "\n❄️ <b>冷号 Top %d：</b>\n", len(hc.Cold))
	for i, nc := range hc.Cold {
		sign, _, _ := zodiac.SignOf(nc.Number)
		fmt.Fprintf(&b, "%d. <b>%02d</b> %s - %d次\n", i+1, nc.Number, signLabel(sign), nc.Count)
	}
	return b.String()
}

func analysisMenuText() string {
	var b strings.Builder
	b.WriteString("📈 <b>数据分析菜单</b>\n\n")
	b.WriteString("多维度分析特码走势：\n\n")
	b.WriteString("• <b>频率分析</b> - 号码出现频次统计\n")
	b.WriteString("• <b>生肖分布</b> - 各生肖出现比例\n")
	b.WriteString("• <b>遗漏分析</b> - 长期未出号码\n")
	b.WriteString("• <b>冷热分析</b> - 冷热号码对比\n\n")
	b.WriteString("选择分析类型：")
	return b.String()
}

func historyMenuText() string {
	var b strings.Builder
	b.WriteString("📜 <b>历史记录菜单</b>\n\n")
	b.WriteString("选择查询范围：")
	return b.String()
}

func hitRateText(st model.HitStats) string {
	var b strings.Builder
	b.WriteString("📊 <b>命中率统计</b>\n\n")
	b.WriteString(separator + "\n")

	if st.Overall.Total == 0 {
		b.WriteString("暂无已开奖的预测记录")
		return b.String()
	}

	fmt.Fprintf(&b, "总预测次数：%d期\n", st.Overall.Total)
	fmt.Fprintf(&b, "命中次数：%d期\n", st.Overall.Hits)
	fmt.Fprintf(&b, "总命中率：%.1f%% 📈\n", st.Overall.Rate)
	if st.Last10.Total > 0 {
		fmt.Fprintf(&b, "\n近10期表现:%d/%d = %.1f%%", st.Last10.Hits, st.Last10.Total, st.Last10.Rate)
	}
	if st.Last5.Total > 0 {
		fmt.Fprintf(&b, "\n近5期表现:%d/%d = %.1f%%", st.Last5.Hits, st.Last5.Total, st.Last5.Rate)
	}
	return b.String()
}

func settingsText(u model.UserSettings) string {
	var b strings.Builder
	b.WriteString("⚙️ <b>个人设置</b>\n\n")
	b.WriteString("当前设置状态：\n\n")
	fmt.Fprintf(&b, "🔔 <b>开奖通知：</b>%s\n", onOff(u.Notify))
	fmt.Fprintf(&b, "⏰ <b>开奖提醒：</b>%s\n", onOff(u.Reminder))
	fmt.Fprintf(&b, "🤖 <b>自动预测：</b>%s\n", onOff(u.AutoPredict))
	fmt.Fprintf(&b, "📐 <b>分析窗口：</b>%d期\n\n", u.Window)
	b.WriteString("点击下方按钮切换设置：")
	return b.String()
}

func helpText() string {
	var b strings.Builder
	b.WriteString("❓ <b>帮助信息</b>\n\n")
	b.WriteString("<b>📌 支持的命令：</b>\n\n")
	b.WriteString("/start - 注册并打开主菜单\n")
	b.WriteString("/predict - AI 生肖预测（TOP 2）\n")
	b.WriteString("/history [期数] - 查询历史开奖\n")
	b.WriteString("/analysis - 数据分析菜单\n")
	b.WriteString("/hitrate - 命中率统计\n")
	b.WriteString("/settings - 个人设置\n\n")
	b.WriteString("<b>⏰ 开奖时间：</b>\n")
	fmt.Fprintf(&b, "每晚 %s (北京时间)\n\n", drawTimeDay)
	b.WriteString("<b>⚠️ 注意事项：</b>\n")
	b.WriteString("• 预测仅供参考\n")
	b.WriteString("• 请理性对待，谨慎决策")
	return b.String()
}

// FormatResult renders the push notification for a fresh draw. rec may
// be nil when no prediction was made for the period.
func FormatResult(d model.Draw, rec *model.PredictionRecord, st model.HitStats) string {
	var b strings.Builder
	b.WriteString("🎰 <b>【新开奖结果】</b>\n\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "📅 期号：%s\n", d.Seq)
	fmt.Fprintf(&b, "⏰ 时间：%s\n\n", d.OpenTime.Format(timeLayout))
	fmt.Fprintf(&b, "🎲 正码：<code>%s</code>\n\n", formatNumbers(d.Numbers[:6]))
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "🌟 <b>特码：%02d</b>  %s\n", d.Special, signLabel(d.SpecialSign))
	b.WriteString(separator + "\n")

	if rec != nil && rec.Verified() {
		picks := make([]string, 0, len(rec.Picks))
		for _, p := range rec.Picks {
			picks = append(picks, signLabel(p.Sign))
		}

		b.WriteString("\n🔮 <b>AI 预测对比</b>\n\n")
		fmt.Fprintf(&b, "预测：%s\n", strings.Join(picks, " + "))
		fmt.Fprintf(&b, "结果：%s\n\n", signLabel(d.SpecialSign))

		if rec.Outcome.Hit {
			fmt.Fprintf(&b, "🎉 <b>预测命中！TOP%d 生肖正确！</b>\n", rec.Outcome.Rank)
			if st.Overall.Total > 0 {
				b.WriteString("\n" + separator + "\n")
				b.WriteString("📊 <b>命中率统计</b>\n\n")
				fmt.Fprintf(&b, "总命中率：%.1f%%\n", st.Overall.Rate)
				if st.Last10.Total > 0 {
					fmt.Fprintf(&b, "近10期:%d/%d = %.1f%%\n", st.Last10.Hits, st.Last10.Total, st.Last10.Rate)
				}
			}
		} else {
			b.WriteString("💔 <b>很遗憾，本期预测未中</b>\n")
		}
		b.WriteString("\n" + separator + "\n")
	}

	b.WriteString("\n恭喜中奖的朋友！ 🎊")
	return truncate(b.String())
}

// FormatPredictionPush renders the push sent to auto-predict users once
// the next period's prediction is stored.
func FormatPredictionPush(rec model.PredictionRecord, cd string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🤖 <b>自动预测（%s期）</b>\n\n", rec.Seq)
	b.WriteString(separator + "\n")

	medals := []string{"🥇", "🥈", "🥉"}
	for i, pick := range rec.Picks {
		medal := fmt.Sprintf("%d.", i+1)
		if i < len(medals) {
			medal = medals[i]
		}
		fmt.Fprintf(&b, "%s %s  %.1f分 %s\n", medal, signLabel(pick.Sign), pick.Score, stars(pick.Score))
		fmt.Fprintf(&b, "   号码：%s\n", formatNumbers(pick.Numbers))
	}

	b.WriteString("\n" + separator + "\n")
	fmt.Fprintf(&b, "⏰ 开奖倒计时：%s\n\n", cd)
	b.WriteString("💡 <i>预测仅供参考，请理性对待</i>")
	return truncate(b.String())
}

// FormatReminder renders the daily pre-draw reminder.
func FormatReminder(cd string) string {
	var b strings.Builder
	b.WriteString("⏰ <b>开奖提醒</b>\n\n")
	fmt.Fprintf(&b, "距离今晚开奖还有：<code>%s</code>\n\n", cd)
	fmt.Fprintf(&b, "开奖时间：%s\n\n", drawTimeDay)
	b.WriteString("🎯 使用 /predict 预测今晚特码")
	return b.String()
}
