package telegram

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data for the inline keyboards. Handlers dispatch on these.
const (
	cbMenuPredict  = "menu_predict"
	cbMenuAnalysis = "menu_analysis"
	cbMenuHistory  = "menu_history"
	cbMenuSettings = "menu_settings"
	cbBackToMain   = "back_to_main"

	cbLatestResult = "latest_result"
	cbHelp         = "help"

	cbDoPredict         = "do_predict"
	cbPredictionHistory = "prediction_history"

	cbAnalysisFrequency = "analysis_frequency"
	cbAnalysisZodiac    = "analysis_zodiac"
	cbAnalysisMissing   = "analysis_missing"
	cbAnalysisHotCold   = "analysis_hotcold"

	cbSettingNotify      = "setting_notify"
	cbSettingReminder    = "setting_reminder"
	cbSettingAutoPredict = "setting_auto_predict"

	cbHistoryPrefix       = "history_"
	cbSettingWindowPrefix = "setting_window_"
)

func backButton() tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData("🔙 返回主菜单", cbBackToMain)
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(backButton())
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 智能预测", cbMenuPredict),
			tgbotapi.NewInlineKeyboardButtonData("📊 最新开奖", cbLatestResult),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📈 数据分析", cbMenuAnalysis),
			tgbotapi.NewInlineKeyboardButtonData("📜 历史记录", cbMenuHistory),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚙️ 个人设置", cbMenuSettings),
			tgbotapi.NewInlineKeyboardButtonData("❓ 帮助", cbHelp),
		),
	)
}

func predictMenuKeyboard(predicted bool) tgbotapi.InlineKeyboardMarkup {
	predictLabel := "🔮 开始预测"
	if predicted {
		predictLabel = "🔮 查看本期预测"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(predictLabel, cbDoPredict),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 预测历史", cbPredictionHistory),
		),
		backRow(),
	)
}

func predictionKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 预测历史", cbPredictionHistory),
			tgbotapi.NewInlineKeyboardButtonData("📈 数据分析", cbMenuAnalysis),
		),
		backRow(),
	)
}

func predictionHistoryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 智能预测", cbMenuPredict),
		),
		backRow(),
	)
}

func latestResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 预测下一期", cbMenuPredict),
			tgbotapi.NewInlineKeyboardButtonData("📈 数据分析", cbMenuAnalysis),
		),
		backRow(),
	)
}

func analysisMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 频率分析", cbAnalysisFrequency),
			tgbotapi.NewInlineKeyboardButtonData("🐲 生肖分布", cbAnalysisZodiac),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏱ 遗漏分析", cbAnalysisMissing),
			tgbotapi.NewInlineKeyboardButtonData("🌡 冷热分析", cbAnalysisHotCold),
		),
		backRow(),
	)
}

func analysisBackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 返回分析菜单", cbMenuAnalysis),
		),
		backRow(),
	)
}

func historyMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("最近10期", cbHistoryPrefix+"10"),
			tgbotapi.NewInlineKeyboardButtonData("最近20期", cbHistoryPrefix+"20"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("最近30期", cbHistoryPrefix+"30"),
			tgbotapi.NewInlineKeyboardButtonData("最近50期", cbHistoryPrefix+"50"),
		),
		backRow(),
	)
}

func settingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔔 开奖通知", cbSettingNotify),
			tgbotapi.NewInlineKeyboardButtonData("⏰ 开奖提醒", cbSettingReminder),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🤖 自动预测", cbSettingAutoPredict),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("窗口50", cbSettingWindowPrefix+"50"),
			tgbotapi.NewInlineKeyboardButtonData("窗口100", cbSettingWindowPrefix+"100"),
			tgbotapi.NewInlineKeyboardButtonData("窗口200", cbSettingWindowPrefix+"200"),
			tgbotapi.NewInlineKeyboardButtonData("窗口300", cbSettingWindowPrefix+"300"),
		),
		backRow(),
	)
}

func backOnlyKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(backRow())
}

// historyLimit extracts the draw count from history_{n} callback data.
func historyLimit(data string) (int, bool) {
	raw := strings.TrimPrefix(data, cbHistoryPrefix)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// windowSetting extracts the window size from setting_window_{n}
// callback data.
func windowSetting(data string) (int, bool) {
	raw := strings.TrimPrefix(data, cbSettingWindowPrefix)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// view pairs a rendered message body with its inline keyboard.
type view struct {
	text   string
	markup tgbotapi.InlineKeyboardMarkup
}

func errorView(msg string) view {
	return view{text: fmt.Sprintf("⚠️ %s", msg), markup: backOnlyKeyboard()}
}
