package drawgen

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/liemgreggy-glitch/fcbot/internal/adapters/repository"
	"github.com/liemgreggy-glitch/fcbot/internal/domain/model"
	"github.com/liemgreggy-glitch/fcbot/pkg/logger"
)

const directoryPermission = 0750

// WriteJSONL writes one draw per line to path, creating parent
// directories as needed.
func WriteJSONL(ctx context.Context, path string, draws []model.Draw) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return 0, fmt.Errorf("create output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger.Get().Named("drawgen").Error(ctx, "close output file failed", logger.Error(cerr))
		}
	}()

	w := bufio.NewWriter(file)
	enc := json.NewEncoder(w)
	written := 0
	for _, d := range draws {
		if err := enc.Encode(d); err != nil {
			return written, fmt.Errorf("encode draw %s: %w", d.Seq, err)
		}
		written++
	}
	if err := w.Flush(); err != nil {
		return written, fmt.Errorf("flush output file: %w", err)
	}

	logger.Get().Named("drawgen").Info(ctx, "draws written",
		logger.String("path", path),
		logger.Int("count", written),
	)
	return written, nil
}

// SeedStore persists the draws into the store at path, counting stores
// and duplicates separately so reruns against an existing file are
// visible.
func SeedStore(ctx context.Context, path string, draws []model.Draw) (stored, duplicate int, err error) {
	store, err := repository.New(ctx, path)
	if err != nil {
		return 0, 0, fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close store: %w", cerr)
		}
	}()

	for _, d := range draws {
		ok, serr := store.SaveDraw(ctx, d)
		if serr != nil {
			return stored, duplicate, fmt.Errorf("store draw %s: %w", d.Seq, serr)
		}
		if ok {
			stored++
		} else {
			duplicate++
		}
	}

	logger.Get().Named("drawgen").Info(ctx, "store seeded",
		logger.String("path", path),
		logger.Int("stored", stored),
		logger.Int("duplicate", duplicate),
	)
	return stored, duplicate, nil
}
