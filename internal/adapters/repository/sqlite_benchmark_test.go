package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/zodiac"
)

func benchStore(b *testing.B) *SQLiteStore {
	b.Helper()

	path := filepath.Join(b.TempDir(), "bench.db")
	s, err := New(context.Background(), path, WithMetricsUpdateInterval(time.Hour))
	if err != nil {
		b.Fatalf("open store: %v", err)
	}
	b.Cleanup(func() { _ = s.Close() })
	return s
}

func BenchmarkSaveDraw(b *testing.B) {
	ctx := context.Background()
	store := benchStore(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seq := fmt.Sprintf("%d", 3024000+i)
		if _, err := store.SaveDraw(ctx, testDraw(b, seq, 1+i%49)); err != nil {
			b.Fatalf("save draw: %v", err)
		}
	}
}

func BenchmarkHistory(b *testing.B) {
	ctx := context.Background()
	store := benchStore(b)

	for i := 0; i < 300; i++ {
		seq := fmt.Sprintf("%d", 3024000+i)
		if _, err := store.SaveDraw(ctx, testDraw(b, seq, 1+i%49)); err != nil {
			b.Fatalf("seed draw: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.History(ctx, "3024300", 100); err != nil {
			b.Fatalf("history: %v", err)
		}
	}
}

func BenchmarkHitStats(b *testing.B) {
	ctx := context.Background()
	store := benchStore(b)

	for i := 0; i < 100; i++ {
		seq := fmt.Sprintf("%d", 3024000+i)
		rec := testRecord(b, seq, zodiac.Tiger, zodiac.Goat)
		out := &model.Outcome{Special: 9, Sign: zodiac.Rat, VerifiedAt: testOpenTime}
		if i%3 == 0 {
			out.Sign = zodiac.Tiger
			out.Hit = true
			out.Rank = 1
		}
		rec.Outcome = out
		if err := store.SavePrediction(ctx, rec); err != nil {
			b.Fatalf("seed prediction: %v", err)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.HitStats(ctx); err != nil {
			b.Fatalf("hit stats: %v", err)
		}
	}
}
