package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"modernc.org/sqlite"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
	"github.com/liemgreggy-glitch/fcbot/pkg/logger"
	"github.com/liemgreggy-glitch/fcbot/pkg/metrics"
)

//go:embed schema.sql
var schemaSQL string

const (
	defaultBusyTimeoutMS         = 10_000
	defaultMetricsUpdateInterval = 30 * time.Second

	// SQLite extended result codes for constraint violations.
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// SQLiteStore is the Store implementation on a local SQLite file. WAL
// keeps readers unblocked while the scheduler writes.
type SQLiteStore struct {
	db *sql.DB

	busyTimeoutMS         int
	metricsUpdateInterval time.Duration

	stop chan struct{}
	done chan struct{}
}

// New opens (creating if needed) the database at path and applies the
// schema.
func New(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		busyTimeoutMS:         defaultBusyTimeoutMS,
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		stop:                  make(chan struct{}),
		done:                  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)",
		path, s.busyTimeoutMS)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open store %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	s.db = db
	go s.metricsLoop()

	return s, nil
}

// Close stops the gauge updater and closes the database.
func (s *SQLiteStore) Close() error {
	close(s.stop)
	<-s.done
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// Ping implements Store.Ping.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		metrics.RecordStoreError()
		return fmt.Errorf("ping store: %w", err)
	}
	return nil
}

// SaveDraw implements Store.SaveDraw.
func (s *SQLiteStore) SaveDraw(ctx context.Context, d model.Draw) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO draws (seq, numbers, special, special_sign, open_time)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(seq) DO NOTHING`,
		d.Seq, joinNumbers(d.Numbers), d.Special, string(d.SpecialSign), d.OpenTime.UnixMilli())
	if err != nil {
		return false, fmt.Errorf("save draw %s: %w", d.Seq, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("save draw %s: %w", d.Seq, err)
	}
	return n > 0, nil
}

// Draw implements Store.Draw.
func (s *SQLiteStore) Draw(ctx context.Context, seq string) (model.Draw, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	row := s.db.QueryRowContext(ctx,
		`SELECT seq, numbers, open_time FROM draws WHERE seq = ?`, seq)
	d, err := scanDraw(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Draw{}, fmt.Errorf("%w: draw %s", ErrNotFound, seq)
	}
	return d, err
}

// LatestDraw implements Store.LatestDraw.
func (s *SQLiteStore) LatestDraw(ctx context.Context) (model.Draw, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	row := s.db.QueryRowContext(ctx,
		`SELECT seq, numbers, open_time FROM draws
		 ORDER BY CAST(seq AS INTEGER) DESC LIMIT 1`)
	d, err := scanDraw(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Draw{}, fmt.Errorf("%w: no draws stored", ErrNotFound)
	}
	return d, err
}

// History implements Store.History and the engine's history source.
func (s *SQLiteStore) History(ctx context.Context, seq string, limit int) ([]model.Draw, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	n, err := model.SeqNumber(seq)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, numbers, open_time FROM draws
		 WHERE CAST(seq AS INTEGER) < ?
		 ORDER BY CAST(seq AS INTEGER) DESC LIMIT ?`, n, limit)
	if err != nil {
		return nil, fmt.Errorf("history before %s: %w", seq, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.Draw
	for rows.Next() {
		d, err := scanDraw(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history before %s: %w", seq, err)
	}
	return out, nil
}

// CountDraws implements Store.CountDraws.
func (s *SQLiteStore) CountDraws(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM draws`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count draws: %w", err)
	}
	return n, nil
}

// SavePrediction implements Store.SavePrediction.
func (s *SQLiteStore) SavePrediction(ctx context.Context, rec model.PredictionRecord) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	picks, err := json.Marshal(rec.Picks)
	if err != nil {
		return fmt.Errorf("save prediction %s: %w", rec.Seq, err)
	}

	var actualSign, actualSpecial, isHit, hitRank, verifiedAt any
	if rec.Outcome != nil {
		actualSign = string(rec.Outcome.Sign)
		actualSpecial = rec.Outcome.Special
		isHit = rec.Outcome.Hit
		hitRank = rec.Outcome.Rank
		verifiedAt = rec.Outcome.VerifiedAt.UnixMilli()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO predictions (seq, picks, created_at, actual_sign, actual_special, is_hit, hit_rank, verified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Seq, string(picks), rec.CreatedAt.UnixMilli(),
		actualSign, actualSpecial, isHit, hitRank, verifiedAt)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: prediction %s", ErrDuplicate, rec.Seq)
		}
		return fmt.Errorf("save prediction %s: %w", rec.Seq, err)
	}
	return nil
}

// Prediction implements Store.Prediction.
func (s *SQLiteStore) Prediction(ctx context.Context, seq string) (model.PredictionRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	row := s.db.QueryRowContext(ctx,
		`SELECT seq, picks, created_at, actual_sign, actual_special, is_hit, hit_rank, verified_at
		 FROM predictions WHERE seq = ?`, seq)
	rec, err := scanPrediction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PredictionRecord{}, fmt.Errorf("%w: prediction %s", ErrNotFound, seq)
	}
	return rec, err
}

// LatestPrediction implements Store.LatestPrediction.
func (s *SQLiteStore) LatestPrediction(ctx context.Context) (model.PredictionRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	row := s.db.QueryRowContext(ctx,
		`SELECT seq, picks, created_at, actual_sign, actual_special, is_hit, hit_rank, verified_at
		 FROM predictions ORDER BY CAST(seq AS INTEGER) DESC LIMIT 1`)
	rec, err := scanPrediction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PredictionRecord{}, fmt.Errorf("%w: no predictions stored", ErrNotFound)
	}
	return rec, err
}

// RecentPredictions implements Store.RecentPredictions and the engine's
// prediction log.
func (s *SQLiteStore) RecentPredictions(ctx context.Context, seq string, k int) ([]model.PredictionRecord, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	n, err := model.SeqNumber(seq)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT seq, picks, created_at, actual_sign, actual_special, is_hit, hit_rank, verified_at
		 FROM predictions
		 WHERE CAST(seq AS INTEGER) < ?
		 ORDER BY CAST(seq AS INTEGER) DESC LIMIT ?`, n, k)
	if err != nil {
		return nil, fmt.Errorf("recent predictions before %s: %w", seq, err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.PredictionRecord
	for rows.Next() {
		rec, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("recent predictions before %s: %w", seq, err)
	}
	return out, nil
}

// Annotate implements Store.Annotate.
func (s *SQLiteStore) Annotate(ctx context.Context, seq string, out model.Outcome) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	res, err := s.db.ExecContext(ctx,
		`UPDATE predictions
		 SET actual_sign = ?, actual_special = ?, is_hit = ?, hit_rank = ?, verified_at = ?
		 WHERE seq = ? AND verified_at IS NULL`,
		string(out.Sign), out.Special, out.Hit, out.Rank, out.VerifiedAt.UnixMilli(), seq)
	if err != nil {
		return fmt.Errorf("annotate %s: %w", seq, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("annotate %s: %w", seq, err)
	}
	if n > 0 {
		return nil
	}

	var exists int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM predictions WHERE seq = ?`, seq).Scan(&exists); err != nil {
		return fmt.Errorf("annotate %s: %w", seq, err)
	}
	if exists == 0 {
		return fmt.Errorf("%w: prediction %s", ErrNotFound, seq)
	}
	return fmt.Errorf("%w: %s", ErrAlreadyVerified, seq)
}

// HitStats implements Store.HitStats.
func (s *SQLiteStore) HitStats(ctx context.Context) (model.HitStats, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	overall, err := s.settled(ctx, -1)
	if err != nil {
		return model.HitStats{}, err
	}
	last10, err := s.settled(ctx, 10)
	if err != nil {
		return model.HitStats{}, err
	}
	last5, err := s.settled(ctx, 5)
	if err != nil {
		return model.HitStats{}, err
	}
	return model.HitStats{Overall: overall, Last10: last10, Last5: last5}, nil
}

// settled counts verified predictions and hits over the most recent
// limit records. A negative limit means all of them.
func (s *SQLiteStore) settled(ctx context.Context, limit int) (model.HitRate, error) {
	var total, hits int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_hit), 0) FROM (
		   SELECT is_hit FROM predictions WHERE verified_at IS NOT NULL
		   ORDER BY CAST(seq AS INTEGER) DESC LIMIT ?)`, limit).Scan(&total, &hits)
	if err != nil {
		return model.HitRate{}, fmt.Errorf("hit stats: %w", err)
	}
	return model.NewHitRate(total, hits), nil
}

// SaveUser implements Store.SaveUser.
func (s *SQLiteStore) SaveUser(ctx context.Context, u model.UserSettings) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreWriteLatency(float64(time.Since(start).Milliseconds()))
	}()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (chat_id, notify, reminder, auto_predict, window, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(chat_id) DO UPDATE SET
		   notify = excluded.notify,
		   reminder = excluded.reminder,
		   auto_predict = excluded.auto_predict,
		   window = excluded.window`,
		u.ChatID, u.Notify, u.Reminder, u.AutoPredict, u.Window, u.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save user %d: %w", u.ChatID, err)
	}
	return nil
}

// User implements Store.User.
func (s *SQLiteStore) User(ctx context.Context, chatID int64) (model.UserSettings, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT chat_id, notify, reminder, auto_predict, window, created_at
		 FROM users WHERE chat_id = ?`, chatID)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserSettings{}, fmt.Errorf("%w: user %d", ErrNotFound, chatID)
	}
	return u, err
}

// Users implements Store.Users.
func (s *SQLiteStore) Users(ctx context.Context) ([]model.UserSettings, error) {
	return s.queryUsers(ctx, "")
}

// NotifiableUsers implements Store.NotifiableUsers.
func (s *SQLiteStore) NotifiableUsers(ctx context.Context) ([]model.UserSettings, error) {
	return s.queryUsers(ctx, "notify = 1")
}

// ReminderUsers implements Store.ReminderUsers.
func (s *SQLiteStore) ReminderUsers(ctx context.Context) ([]model.UserSettings, error) {
	return s.queryUsers(ctx, "reminder = 1")
}

// AutoPredictUsers implements Store.AutoPredictUsers.
func (s *SQLiteStore) AutoPredictUsers(ctx context.Context) ([]model.UserSettings, error) {
	return s.queryUsers(ctx, "auto_predict = 1")
}

// CountUsers implements Store.CountUsers.
func (s *SQLiteStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) queryUsers(ctx context.Context, cond string) ([]model.UserSettings, error) {
	q := `SELECT chat_id, notify, reminder, auto_predict, window, created_at FROM users`
	if cond != "" {
		q += " WHERE " + cond
	}
	q += " ORDER BY chat_id"

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.UserSettings
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	return out, nil
}

// metricsLoop refreshes the storage gauges until Close.
func (s *SQLiteStore) metricsLoop() {
	defer close(s.done)

	ticker := time.NewTicker(s.metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.refreshGauges()
		}
	}
}

func (s *SQLiteStore) refreshGauges() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if n, err := s.CountDraws(ctx); err == nil {
		metrics.UpdateStoredDraws(n)
	} else {
		metrics.RecordStoreError()
		logger.Get().Warn(ctx, "draw gauge refresh failed", logger.Error(err))
	}
	if n, err := s.CountUsers(ctx); err == nil {
		metrics.UpdateKnownUsers(n)
	} else {
		metrics.RecordStoreError()
		logger.Get().Warn(ctx, "user gauge refresh failed", logger.Error(err))
	}
}

// rowScanner lets the scan helpers work on both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraw(row rowScanner) (model.Draw, error) {
	var (
		seq, numbers string
		openMs       int64
	)
	if err := row.Scan(&seq, &numbers, &openMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Draw{}, err
		}
		return model.Draw{}, fmt.Errorf("scan draw: %w", err)
	}

	nums, err := splitNumbers(numbers)
	if err != nil {
		return model.Draw{}, fmt.Errorf("draw %s: %w", seq, err)
	}
	d, err := model.NewDraw(seq, nums, time.UnixMilli(openMs).UTC())
	if err != nil {
		return model.Draw{}, fmt.Errorf("draw %s: %w", seq, err)
	}
	return d, nil
}

func scanPrediction(row rowScanner) (model.PredictionRecord, error) {
	var (
		rec       model.PredictionRecord
		picks     string
		createdMs int64
		sign      sql.NullString
		special   sql.NullInt64
		isHit     sql.NullBool
		rank      sql.NullInt64
		verMs     sql.NullInt64
	)
	if err := row.Scan(&rec.Seq, &picks, &createdMs, &sign, &special, &isHit, &rank, &verMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PredictionRecord{}, err
		}
		return model.PredictionRecord{}, fmt.Errorf("scan prediction: %w", err)
	}

	if err := json.Unmarshal([]byte(picks), &rec.Picks); err != nil {
		return model.PredictionRecord{}, fmt.Errorf("prediction %s picks: %w", rec.Seq, err)
	}
	rec.CreatedAt = time.UnixMilli(createdMs).UTC()
	if verMs.Valid {
		rec.Outcome = &model.Outcome{
			Special:    int(special.Int64),
			Sign:       zodiac.Sign(sign.String),
			Hit:        isHit.Bool,
			Rank:       int(rank.Int64),
			VerifiedAt: time.UnixMilli(verMs.Int64).UTC(),
		}
	}
	return rec, nil
}

func scanUser(row rowScanner) (model.UserSettings, error) {
	var (
		u         model.UserSettings
		createdMs int64
	)
	if err := row.Scan(&u.ChatID, &u.Notify, &u.Reminder, &u.AutoPredict, &u.Window, &createdMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.UserSettings{}, err
		}
		return model.UserSettings{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = time.UnixMilli(createdMs).UTC()
	return u, nil
}

// joinNumbers renders the balls in drawn order, comma separated, the
// same shape the upstream API uses.
func joinNumbers(nums [model.DrawNumbers]int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func splitNumbers(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("ball %q: %w", p, err)
		}
		nums[i] = n
	}
	return nums, nil
}

func isConstraintViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	code := se.Code()
	return code == sqliteConstraintPrimaryKey || code == sqliteConstraintUnique
}
