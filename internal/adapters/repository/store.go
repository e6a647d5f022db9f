// Package repository defines the draw store interface and errors.
package repository

import (
	"context"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
)

// Store provides durable access to draws, predictions and user settings.
type Store interface {
	// SaveDraw stores a completed draw. It reports false when the period
	// was already stored; stored rows are never overwritten.
	SaveDraw(ctx context.Context, d model.Draw) (bool, error)

	// Draw returns the stored draw for a period.
	// Returns ErrNotFound if the period is unknown.
	Draw(ctx context.Context, seq string) (model.Draw, error)

	// LatestDraw returns the most recent stored draw.
	LatestDraw(ctx context.Context) (model.Draw, error)

	// History returns at most limit draws from periods before seq, most
	// recent first.
	History(ctx context.Context, seq string, limit int) ([]model.Draw, error)

	// CountDraws returns the number of stored draw periods.
	CountDraws(ctx context.Context) (int, error)

	// SavePrediction stores a new prediction record. A period is
	// predicted at most once; a second save returns ErrDuplicate.
	SavePrediction(ctx context.Context, rec model.PredictionRecord) error

	// Prediction returns the stored prediction for a period.
	Prediction(ctx context.Context, seq string) (model.PredictionRecord, error)

	// LatestPrediction returns the most recent stored prediction.
	LatestPrediction(ctx context.Context) (model.PredictionRecord, error)

	// RecentPredictions returns at most k records from periods before
	// seq, most recent first.
	RecentPredictions(ctx context.Context, seq string, k int) ([]model.PredictionRecord, error)

	// Annotate attaches the outcome to a stored prediction. A record is
	// annotated exactly once; a second call returns ErrAlreadyVerified.
	Annotate(ctx context.Context, seq string, out model.Outcome) error

	// HitStats summarizes settled predictions.
	HitStats(ctx context.Context) (model.HitStats, error)

	// SaveUser upserts one chat user's settings. CreatedAt is kept from
	// the first save.
	SaveUser(ctx context.Context, u model.UserSettings) error

	// User returns one chat user's settings.
	// Returns ErrNotFound if the chat is unknown.
	User(ctx context.Context, chatID int64) (model.UserSettings, error)

	// Users returns every stored user.
	Users(ctx context.Context) ([]model.UserSettings, error)

	// NotifiableUsers returns users with result notifications on.
	NotifiableUsers(ctx context.Context) ([]model.UserSettings, error)

	// ReminderUsers returns users with the daily reminder on.
	ReminderUsers(ctx context.Context) ([]model.UserSettings, error)

	// AutoPredictUsers returns users with automatic prediction on.
	AutoPredictUsers(ctx context.Context) ([]model.UserSettings, error)

	// CountUsers returns the number of stored users.
	CountUsers(ctx context.Context) (int, error)

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error

	// Close stops background work and closes the database.
	Close() error
}
