// Package service wires ingestion, settlement and notification
// together: it polls the upstream source on the draw calendar, settles
// stored predictions against fresh draws, fans results out through the
// notification queue and keeps the next period predicted for opted-in
// chats.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/liemgreggy-glitch/fcbot/internal/adapters/mq/queue"
	"github.com/liemgreggy-glitch/fcbot/internal/adapters/repository"
	"github.com/liemgreggy-glitch/fcbot/internal/adapters/telegram"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/dedupe"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/engine"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/pkg/logger"
	"github.com/liemgreggy-glitch/fcbot/pkg/metrics"
)

const (
	defaultTopN      = 2
	defaultSyncYears = 3

	// checkSpec fires every minute; shouldCheck gates the actual fetch
	// so the upstream is polled densely only around the draw.
	checkSpec    = "* * * * *"
	reminderSpec = "0 21 * * *"
)

// Source reads completed draws from the upstream API.
type Source interface {
	Latest(ctx context.Context) (model.Draw, error)
	Live(ctx context.Context) (model.Draw, error)
	Year(ctx context.Context, year int) ([]model.Draw, error)
}

// Predictor produces the ranked category prediction for a period.
type Predictor interface {
	Predict(ctx context.Context, seq string, windowSize, topN int) (model.PredictionRecord, error)
}

// Service runs the draw schedule.
type Service struct {
	mu sync.Mutex

	store     repository.Store
	source    Source
	predictor Predictor
	queue     queue.Queue
	deduper   dedupe.Deduper

	topN      int
	syncYears int
	loc       *time.Location

	cron    *cron.Cron
	started bool

	logger logger.Logger
}

// New assembles the service around its collaborators. The scheduler is
// not running until Start.
func New(store repository.Store, source Source, predictor Predictor, q queue.Queue, opts ...Option) *Service {
	s := &Service{
		store:     store,
		source:    source,
		predictor: predictor,
		queue:     q,
		deduper:   dedupe.NewInMemoryDeduper(),
		topN:      defaultTopN,
		syncYears: defaultSyncYears,
		loc:       model.DrawLocation(),
		logger:    logger.Get().Named("service"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start backfills history when the store is empty and begins the draw
// schedule.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting draw service")

	if err := s.syncHistory(ctx); err != nil {
		return fmt.Errorf("history sync: %w", err)
	}

	s.cron = cron.New(cron.WithLocation(s.loc))
	if _, err := s.cron.AddFunc(checkSpec, func() {
		if shouldCheck(time.Now().In(s.loc)) {
			s.CheckOnce(context.Background())
		}
	}); err != nil {
		return fmt.Errorf("schedule result check: %w", err)
	}
	if _, err := s.cron.AddFunc(reminderSpec, func() {
		s.SendReminders(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	s.cron.Start()

	s.started = true
	s.logger.Info(ctx, "draw service started",
		logger.Int("top_n", s.topN),
		logger.String("draw_zone", s.loc.String()),
	)
	return nil
}

// Stop halts the schedule and waits for running jobs.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping draw service")

	jobs := s.cron.Stop()
	select {
	case <-jobs.Done():
	case <-ctx.Done():
		s.logger.Warn(ctx, "scheduled jobs still running at shutdown")
	}

	s.started = false
	s.logger.Info(ctx, "draw service stopped")
	return nil
}

// shouldCheck reports whether a fetch should run at this wall time:
// every minute inside the 21:30-21:40 draw window, every five minutes
// otherwise.
func shouldCheck(now time.Time) bool {
	if now.Hour() == 21 && now.Minute() >= 30 && now.Minute() <= 40 {
		return true
	}
	return now.Minute()%5 == 0
}

// syncHistory backfills recent years from upstream when the store holds
// no draws yet.
func (s *Service) syncHistory(ctx context.Context) error {
	count, err := s.store.CountDraws(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Info(ctx, "store already populated", logger.Int("draws", count))
		return nil
	}

	year := time.Now().In(s.loc).Year()
	stored := 0
	for y := year - s.syncYears + 1; y <= year; y++ {
		draws, err := s.source.Year(ctx, y)
		if err != nil {
			s.logger.Warn(ctx, "year sync failed", logger.Int("year", y), logger.Error(err))
			continue
		}
		for _, d := range draws {
			ok, err := s.store.SaveDraw(ctx, d)
			if err != nil {
				s.logger.Warn(ctx, "store draw failed", logger.String("seq", d.Seq), logger.Error(err))
				continue
			}
			if ok {
				stored++
				metrics.RecordDrawIngested()
			} else {
				metrics.RecordDrawDuplicate()
			}
		}
	}

	s.logger.Info(ctx, "history synced", logger.Int("draws", stored))
	s.updateGauges(ctx)
	return nil
}

// CheckOnce runs one result check: fetch the latest draw, store it if
// new, settle its prediction, notify users and predict the next period.
func (s *Service) CheckOnce(ctx context.Context) {
	d, err := s.fetchLatest(ctx)
	if err != nil {
		s.logger.Warn(ctx, "fetch latest draw failed", logger.Error(err))
		return
	}

	if s.deduper.SeenAndRecord(ctx, d.Seq) {
		return
	}

	stored, err := s.store.SaveDraw(ctx, d)
	if err != nil {
		s.deduper.Unrecord(ctx, d.Seq)
		s.logger.Error(ctx, "store draw failed", logger.String("seq", d.Seq), logger.Error(err))
		return
	}
	if !stored {
		metrics.RecordDrawDuplicate()
		return
	}
	metrics.RecordDrawIngested()
	s.logger.Info(ctx, "new draw ingested",
		logger.String("seq", d.Seq),
		logger.Int("special", d.Special),
		logger.String("sign", string(d.SpecialSign)),
	)

	rec := s.settle(ctx, d)
	s.broadcast(ctx, d, rec)
	s.autoPredict(ctx, d)
	s.updateGauges(ctx)
}

// fetchLatest asks for the settled result, falling back to the live
// feed when the primary endpoint lags.
func (s *Service) fetchLatest(ctx context.Context) (model.Draw, error) {
	d, err := s.source.Latest(ctx)
	if err == nil {
		return d, nil
	}

	live, lerr := s.source.Live(ctx)
	if lerr != nil {
		return model.Draw{}, errors.Join(err, lerr)
	}
	return live, nil
}

// settle verifies the period's prediction against the fresh draw and
// records the outcome. Returns the annotated record, or nil when none
// was made.
func (s *Service) settle(ctx context.Context, d model.Draw) *model.PredictionRecord {
	rec, err := s.store.Prediction(ctx, d.Seq)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn(ctx, "load prediction failed", logger.String("seq", d.Seq), logger.Error(err))
		}
		return nil
	}
	if rec.Verified() {
		return &rec
	}

	out, err := engine.Verify(rec, d, time.Now())
	if err != nil {
		s.logger.Error(ctx, "verify prediction failed", logger.String("seq", d.Seq), logger.Error(err))
		return &rec
	}
	if err := s.store.Annotate(ctx, d.Seq, out); err != nil && !errors.Is(err, repository.ErrAlreadyVerified) {
		s.logger.Error(ctx, "annotate prediction failed", logger.String("seq", d.Seq), logger.Error(err))
		return &rec
	}

	if out.Hit {
		metrics.RecordPredictionHit()
	} else {
		metrics.RecordPredictionMiss()
	}
	s.logger.Info(ctx, "prediction settled",
		logger.String("seq", d.Seq),
		logger.Bool("hit", out.Hit),
		logger.Int("rank", out.Rank),
	)

	rec.Outcome = &out
	return &rec
}

// broadcast queues the result push for every chat with notifications
// on.
func (s *Service) broadcast(ctx context.Context, d model.Draw, rec *model.PredictionRecord) {
	users, err := s.store.NotifiableUsers(ctx)
	if err != nil {
		s.logger.Error(ctx, "load notifiable users failed", logger.Error(err))
		return
	}
	if len(users) == 0 {
		return
	}

	st, err := s.store.HitStats(ctx)
	if err != nil {
		s.logger.Warn(ctx, "load hit stats failed", logger.Error(err))
	}

	text := telegram.FormatResult(d, rec, st)
	s.enqueueAll(ctx, users, model.NotificationResult, text)
}

// autoPredict keeps the period after d predicted and pushes the picks
// to opted-in chats.
func (s *Service) autoPredict(ctx context.Context, d model.Draw) {
	users, err := s.store.AutoPredictUsers(ctx)
	if err != nil {
		s.logger.Error(ctx, "load auto-predict users failed", logger.Error(err))
		return
	}
	if len(users) == 0 {
		return
	}

	next, err := model.NextSeq(d.Seq)
	if err != nil {
		s.logger.Error(ctx, "derive next period failed", logger.String("seq", d.Seq), logger.Error(err))
		return
	}

	rec, err := s.store.Prediction(ctx, next)
	if errors.Is(err, repository.ErrNotFound) {
		started := time.Now()
		rec, err = s.predictor.Predict(ctx, next, 0, s.topN)
		if err != nil {
			s.logger.Error(ctx, "auto prediction failed", logger.String("seq", next), logger.Error(err))
			return
		}
		metrics.RecordPrediction()
		metrics.RecordPredictionLatency(float64(time.Since(started).Milliseconds()))

		rec.CreatedAt = time.Now()
		if serr := s.store.SavePrediction(ctx, rec); serr != nil {
			if !errors.Is(serr, repository.ErrDuplicate) {
				s.logger.Error(ctx, "save prediction failed", logger.String("seq", next), logger.Error(serr))
				return
			}
			if stored, perr := s.store.Prediction(ctx, next); perr == nil {
				rec = stored
			}
		}
	} else if err != nil {
		s.logger.Warn(ctx, "load prediction failed", logger.String("seq", next), logger.Error(err))
		return
	}

	text := telegram.FormatPredictionPush(rec, telegram.Countdown(time.Now().In(s.loc)))
	s.enqueueAll(ctx, users, model.NotificationPrediction, text)
}

// SendReminders queues the daily pre-draw reminder.
func (s *Service) SendReminders(ctx context.Context) {
	users, err := s.store.ReminderUsers(ctx)
	if err != nil {
		s.logger.Error(ctx, "load reminder users failed", logger.Error(err))
		return
	}
	if len(users) == 0 {
		return
	}

	text := telegram.FormatReminder(telegram.Countdown(time.Now().In(s.loc)))
	s.enqueueAll(ctx, users, model.NotificationReminder, text)
}

func (s *Service) enqueueAll(ctx context.Context, users []model.UserSettings, kind model.NotificationKind, text string) {
	queued := 0
	for _, u := range users {
		n := model.Notification{ChatID: u.ChatID, Kind: kind, Text: text}
		if !s.queue.Enqueue(ctx, n) {
			s.logger.Warn(ctx, "notification dropped",
				logger.Int64("chat_id", u.ChatID),
				logger.String("kind", string(kind)),
			)
			continue
		}
		queued++
	}
	s.logger.Info(ctx, "notifications queued",
		logger.String("kind", string(kind)),
		logger.Int("count", queued),
	)
}

func (s *Service) updateGauges(ctx context.Context) {
	if n, err := s.store.CountDraws(ctx); err == nil {
		metrics.UpdateStoredDraws(n)
	}
	if n, err := s.store.CountUsers(ctx); err == nil {
		metrics.UpdateKnownUsers(n)
	}
}
