// Package telegram implements the chat bot: command handlers, inline
// menus and the push notifier.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/liemgreggy-glitch/fcbot/internal/adapters/repository"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/stats"
	"github.com/liemgreggy-glitch/fcbot/pkg/logger"
	"github.com/liemgreggy-glitch/fcbot/pkg/metrics"
)

const (
	defaultTopN = 2

	updateTimeout  = 30
	handlerTimeout = 15 * time.Second

	defaultHistoryLimit   = 10
	maxHistoryLimit       = 50
	predictionHistorySize = 10
)

// Store is the view of the draw store the bot needs.
type Store interface {
	LatestDraw(ctx context.Context) (model.Draw, error)
	History(ctx context.Context, seq string, limit int) ([]model.Draw, error)
	SavePrediction(ctx context.Context, rec model.PredictionRecord) error
	Prediction(ctx context.Context, seq string) (model.PredictionRecord, error)
	LatestPrediction(ctx context.Context) (model.PredictionRecord, error)
	RecentPredictions(ctx context.Context, seq string, k int) ([]model.PredictionRecord, error)
	HitStats(ctx context.Context) (model.HitStats, error)
	SaveUser(ctx context.Context, u model.UserSettings) error
	User(ctx context.Context, chatID int64) (model.UserSettings, error)
}

// Predictor produces the ranked category prediction for a period.
type Predictor interface {
	Predict(ctx context.Context, seq string, windowSize, topN int) (model.PredictionRecord, error)
}

// botAPI is the slice of the Telegram client the bot uses. It is
// satisfied by *tgbotapi.BotAPI.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Bot serves chat commands and inline menus over Telegram long polling.
type Bot struct {
	api       botAPI
	store     Store
	predictor Predictor

	topN int
	loc  *time.Location

	mu       sync.Mutex
	started  bool
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// New builds the bot. The token is dialed unless WithBotAPI injects a
// client.
func New(token string, store Store, predictor Predictor, opts ...Option) (*Bot, error) {
	if store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}

	b := &Bot{
		store:     store,
		predictor: predictor,
		topN:      defaultTopN,
		loc:       model.DrawLocation(),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("telegram"),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.api == nil {
		api, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			return nil, fmt.Errorf("connect telegram: %w", err)
		}
		b.api = api
	}
	return b, nil
}

// Start begins consuming updates. It returns immediately; handling runs
// on a background goroutine until Stop or ctx cancellation.
func (b *Bot) Start(ctx context.Context) {
	b.mu.Lock()
	if b.started {
		b.mu.Unlock()
		return
	}
	b.started = true
	b.mu.Unlock()

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = updateTimeout
	updates := b.api.GetUpdatesChan(cfg)

	go b.loop(ctx, updates)
}

func (b *Bot) loop(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	defer close(b.done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.shutdown:
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop halts the update loop and waits for the in-flight handler.
func (b *Bot) Stop(ctx context.Context) error {
	b.mu.Lock()
	started := b.started
	b.mu.Unlock()
	if !started {
		return nil
	}

	select {
	case <-b.shutdown:
		// already signaled
	default:
		close(b.shutdown)
	}
	b.api.StopReceivingUpdates()

	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("bot shutdown: %w", ctx.Err())
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	hctx, cancel := context.WithTimeout(ctx, handlerTimeout)
	defer cancel()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(hctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(hctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	cmd := msg.Command()
	metrics.RecordTelegramCommand(cmd)

	var v view
	switch cmd {
	case "start":
		v = b.mainMenuView(ctx, chatID, msg.From)
	case "predict":
		v = b.predictView(ctx, chatID)
	case "history":
		limit := defaultHistoryLimit
		if raw := strings.TrimSpace(msg.CommandArguments()); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 {
				limit = n
			}
		}
		v = b.historyView(ctx, limit)
	case "analysis":
		v = view{text: analysisMenuText(), markup: analysisMenuKeyboard()}
	case "hitrate":
		v = b.hitRateView(ctx)
	case "settings":
		v = b.settingsView(ctx, chatID)
	default:
		v = view{text: helpText(), markup: backOnlyKeyboard()}
	}
	b.reply(ctx, chatID, v)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		metrics.RecordTelegramError()
		b.logger.Warn(ctx, "answer callback failed", logger.Error(err))
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	metrics.RecordTelegramCommand(cb.Data)

	var v view
	switch {
	case cb.Data == cbBackToMain:
		v = b.mainMenuView(ctx, chatID, cb.From)
	case cb.Data == cbMenuPredict:
		v = b.predictMenuView(ctx)
	case cb.Data == cbDoPredict:
		v = b.predictView(ctx, chatID)
	case cb.Data == cbPredictionHistory:
		v = b.predictionHistoryView(ctx)
	case cb.Data == cbMenuAnalysis:
		v = view{text: analysisMenuText(), markup: analysisMenuKeyboard()}
	case cb.Data == cbMenuHistory:
		v = view{text: historyMenuText(), markup: historyMenuKeyboard()}
	case cb.Data == cbMenuSettings:
		v = b.settingsView(ctx, chatID)
	case cb.Data == cbLatestResult:
		v = b.latestResultView(ctx)
	case cb.Data == cbHelp:
		v = view{text: helpText(), markup: backOnlyKeyboard()}
	case cb.Data == cbAnalysisFrequency:
		v = b.frequencyView(ctx, chatID)
	case cb.Data == cbAnalysisZodiac:
		v = b.distributionView(ctx, chatID)
	case cb.Data == cbAnalysisMissing:
		v = b.missingView(ctx, chatID)
	case cb.Data == cbAnalysisHotCold:
		v = b.hotColdView(ctx)
	case cb.Data == cbSettingNotify, cb.Data == cbSettingReminder, cb.Data == cbSettingAutoPredict:
		v = b.toggleSettingView(ctx, chatID, cb.Data)
	case strings.HasPrefix(cb.Data, cbSettingWindowPrefix):
		v = b.setWindowView(ctx, chatID, cb.Data)
	case strings.HasPrefix(cb.Data, cbHistoryPrefix):
		limit, ok := historyLimit(cb.Data)
		if !ok {
			return
		}
		v = b.historyView(ctx, limit)
	default:
		return
	}
	b.edit(ctx, chatID, cb.Message.MessageID, v)
}

func (b *Bot) reply(ctx context.Context, chatID int64, v view) {
	msg := tgbotapi.NewMessage(chatID, truncate(v.text))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = v.markup
	if _, err := b.api.Send(msg); err != nil {
		metrics.RecordTelegramError()
		b.logger.Warn(ctx, "send message failed", logger.Int64("chat_id", chatID), logger.Error(err))
	}
}

func (b *Bot) edit(ctx context.Context, chatID int64, messageID int, v view) {
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, truncate(v.text), v.markup)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(msg); err != nil {
		metrics.RecordTelegramError()
		b.logger.Warn(ctx, "edit message failed", logger.Int64("chat_id", chatID), logger.Error(err))
	}
}

func (b *Bot) countdown() string {
	return Countdown(time.Now().In(b.loc))
}

// ensureUser loads the chat's settings, registering defaults on first
// contact.
func (b *Bot) ensureUser(ctx context.Context, chatID int64) model.UserSettings {
	u, err := b.store.User(ctx, chatID)
	if err == nil {
		return u
	}
	if !errors.Is(err, repository.ErrNotFound) {
		b.logger.Warn(ctx, "load user failed", logger.Int64("chat_id", chatID), logger.Error(err))
	}

	u = model.NewUserSettings(chatID, time.Now())
	if err := b.store.SaveUser(ctx, u); err != nil {
		b.logger.Warn(ctx, "register user failed", logger.Int64("chat_id", chatID), logger.Error(err))
	}
	return u
}

func (b *Bot) userWindow(ctx context.Context, chatID int64) int {
	if u, err := b.store.User(ctx, chatID); err == nil && u.Window > 0 {
		return u.Window
	}
	return stats.DefaultWindow
}

// recentDraws returns up to limit stored draws, newest first, including
// the latest one. Returns nil without error when nothing is stored yet.
func (b *Bot) recentDraws(ctx context.Context, limit int) ([]model.Draw, error) {
	latest, err := b.store.LatestDraw(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	next, err := model.NextSeq(latest.Seq)
	if err != nil {
		return nil, err
	}
	return b.store.History(ctx, next, limit)
}

func (b *Bot) mainMenuView(ctx context.Context, chatID int64, from *tgbotapi.User) view {
	b.ensureUser(ctx, chatID)

	name := "朋友"
	if from != nil && from.FirstName != "" {
		name = html.EscapeString(from.FirstName)
	}
	return view{text: welcomeText(name, b.countdown()), markup: mainMenuKeyboard()}
}

func (b *Bot) predictMenuView(ctx context.Context) view {
	latest, err := b.store.LatestDraw(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorView("暂无历史数据，请稍后再试")
		}
		b.logger.Warn(ctx, "load latest draw failed", logger.Error(err))
		return errorView("数据加载失败，请稍后再试")
	}
	next, err := model.NextSeq(latest.Seq)
	if err != nil {
		b.logger.Warn(ctx, "derive next period failed", logger.String("seq", latest.Seq), logger.Error(err))
		return errorView("期号解析失败，请稍后再试")
	}

	predicted := false
	if _, err := b.store.Prediction(ctx, next); err == nil {
		predicted = true
	}
	return view{text: predictMenuText(next, b.countdown(), predicted), markup: predictMenuKeyboard(predicted)}
}

// predictView predicts the next period, or shows the locked prediction
// when one is already stored.
func (b *Bot) predictView(ctx context.Context, chatID int64) view {
	latest, err := b.store.LatestDraw(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorView("暂无历史数据，无法预测")
		}
		b.logger.Warn(ctx, "load latest draw failed", logger.Error(err))
		return errorView("数据加载失败，请稍后再试")
	}
	next, err := model.NextSeq(latest.Seq)
	if err != nil {
		b.logger.Warn(ctx, "derive next period failed", logger.String("seq", latest.Seq), logger.Error(err))
		return errorView("期号解析失败，请稍后再试")
	}

	if rec, perr := b.store.Prediction(ctx, next); perr == nil {
		return view{text: existingPredictionText(rec, b.countdown()), markup: predictionKeyboard()}
	} else if !errors.Is(perr, repository.ErrNotFound) {
		b.logger.Warn(ctx, "load prediction failed", logger.String("seq", next), logger.Error(perr))
		return errorView("数据加载失败，请稍后再试")
	}

	window := b.userWindow(ctx, chatID)

	started := time.Now()
	rec, err := b.predictor.Predict(ctx, next, window, b.topN)
	if err != nil {
		b.logger.Error(ctx, "prediction failed", logger.String("seq", next), logger.Error(err))
		return errorView("预测失败，请稍后再试")
	}
	metrics.RecordPrediction()
	metrics.RecordPredictionLatency(float64(time.Since(started).Milliseconds()))

	rec.CreatedAt = time.Now()
	if err := b.store.SavePrediction(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			if stored, serr := b.store.Prediction(ctx, next); serr == nil {
				return view{text: existingPredictionText(stored, b.countdown()), markup: predictionKeyboard()}
			}
		}
		b.logger.Error(ctx, "save prediction failed", logger.String("seq", next), logger.Error(err))
		return errorView("预测保存失败，请稍后再试")
	}

	var details []stats.SignDetail
	var analyzed int
	draws, derr := b.store.History(ctx, next, window)
	if derr != nil {
		b.logger.Warn(ctx, "load history failed", logger.String("seq", next), logger.Error(derr))
	} else {
		analyzed = len(draws)
		for _, p := range rec.Picks {
			d, dderr := stats.DetailOf(draws, p.Sign)
			if dderr != nil {
				break
			}
			details = append(details, d)
		}
	}

	st, herr := b.store.HitStats(ctx)
	if herr != nil {
		b.logger.Warn(ctx, "load hit stats failed", logger.Error(herr))
	}
	return view{text: predictionText(rec, details, analyzed, st, b.countdown()), markup: predictionKeyboard()}
}

func (b *Bot) predictionHistoryView(ctx context.Context) view {
	latest, err := b.store.LatestPrediction(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view{text: predictionHistoryText(nil, model.HitStats{}), markup: predictionHistoryKeyboard()}
		}
		b.logger.Warn(ctx, "load latest prediction failed", logger.Error(err))
		return errorView("数据加载失败，请稍后再试")
	}
	next, err := model.NextSeq(latest.Seq)
	if err != nil {
		b.logger.Warn(ctx, "derive next period failed", logger.String("seq", latest.Seq), logger.Error(err))
		return errorView("期号解析失败，请稍后再试")
	}

	records, err := b.store.RecentPredictions(ctx, next, predictionHistorySize)
	if err != nil {
		b.logger.Warn(ctx, "load recent predictions failed", logger.Error(err))
		return errorView("数据加载失败，请稍后再试")
	}

	st, herr := b.store.HitStats(ctx)
	if herr != nil {
		b.logger.Warn(ctx, "load hit stats failed", logger.Error(herr))
	}
	return view{text: predictionHistoryText(records, st), markup: predictionHistoryKeyboard()}
}

func (b *Bot) latestResultView(ctx context.Context) view {
	latest, err := b.store.LatestDraw(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errorView("暂无开奖数据，请稍后再试")
		}
		b.logger.Warn(ctx, "load latest draw failed", logger.Error(err))
		return errorView("数据加载失败，请稍后再试")
	}
	return view{text: latestResultText(latest, b.countdown()), markup: latestResultKeyboard()}
}

func (b *Bot) historyView(ctx context.Context, limit int) view {
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	draws, err := b.recentDraws(ctx, limit)
	if err != nil {
		b.logger.Warn(ctx, "load history failed", logger.Error(err))
		return errorView("数据加载失败，请稍后再试")
	}
	return view{text: historyText(draws), markup: historyMenuKeyboard()}
}

func (b *Bot) frequencyView(ctx context.Context, chatID int64) view {
	window := b.userWindow(ctx, chatID)
	draws, err := b.recentDraws(ctx, window)
	if err != nil {
		b.logger.Warn(ctx, "load history failed", logger.Error(err))
		return errorView("数据加载失败，请稍后再试")
	}
	counts := stats.Frequency(draws, stats.DefaultTopNumbers)
	return view{text: frequencyText(counts, len(draws)), markup: analysisBackKeyboard()}
}

func (b *Bot) distributionView(ctx context.Context, chatID int64) view {
	window := b.userWindow(ctx, chatID)
	draws, err := b.recentDraws(ctx, window)
	if err != nil {
		b.logger.Warn(ctx, "load history failed", logger.Error(err))
		return errorView("数据加载失败，请稍后再试")
	}
	if len(draws) == 0 {
		return errorView("暂无历史数据")
	}
	shares := stats.Distribution(draws)
	return view{text: distributionText(shares, len(draws)), markup: analysisBackKeyboard()}
}

func (b *Bot) missingView(ctx context.Context, chatID int64) view {
	window := b.userWindow(ctx, chatID)
	draws, err := b.recentDraws(ctx, window)
	if err != nil {
		b.logger.Warn(ctx, "load history failed", logger.Error(err))
		return errorView("数据加载失败，请稍后再试")
	}
	gaps := stats.Missing(draws, stats.DefaultTopMissing)
	return view{text: missingText(gaps, len(draws)), markup: analysisBackKeyboard()}
}

func (b *Bot) hotColdView(ctx context.Context) view {
	draws, err := b.recentDraws(ctx, stats.DefaultHotColdWindow)
	if err != nil {
		b.logger.Warn(ctx, "load history failed", logger.Error(err))
		return errorView("数据加载失败，请稍后再试")
	}
	hc := stats.HotColdNumbers(draws, stats.DefaultTopNumbers)
	return view{text: hotColdText(hc, len(draws)), markup: analysisBackKeyboard()}
}

func (b *Bot) hitRateView(ctx context.Context) view {
	st, err := b.store.HitStats(ctx)
	if err != nil {
		b.logger.Warn(ctx, "load hit stats failed", logger.Error(err))
		return errorView("数据加载失败，请稍后再试")
	}
	return view{text: hitRateText(st), markup: predictionHistoryKeyboard()}
}

func (b *Bot) settingsView(ctx context.Context, chatID int64) view {
	u := b.ensureUser(ctx, chatID)
	return view{text: settingsText(u), markup: settingsKeyboard()}
}

func (b *Bot) toggleSettingView(ctx context.Context, chatID int64, data string) view {
	u := b.ensureUser(ctx, chatID)

	switch data {
	case cbSettingNotify:
		u.Notify = !u.Notify
	case cbSettingReminder:
		u.Reminder = !u.Reminder
	case cbSettingAutoPredict:
		u.AutoPredict = !u.AutoPredict
	}

	if err := b.store.SaveUser(ctx, u); err != nil {
		b.logger.Warn(ctx, "save settings failed", logger.Int64("chat_id", chatID), logger.Error(err))
		return errorView("设置保存失败，请稍后再试")
	}
	return view{text: settingsText(u), markup: settingsKeyboard()}
}

func (b *Bot) setWindowView(ctx context.Context, chatID int64, data string) view {
	n, ok := windowSetting(data)
	if !ok {
		return b.settingsView(ctx, chatID)
	}

	u := b.ensureUser(ctx, chatID)
	u.Window = n
	if err := b.store.SaveUser(ctx, u); err != nil {
		b.logger.Warn(ctx, "save settings failed", logger.Int64("chat_id", chatID), logger.Error(err))
		return errorView("设置保存失败，请稍后再试")
	}
	return view{text: settingsText(u), markup: settingsKeyboard()}
}
