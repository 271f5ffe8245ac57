package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/phonebook"
)

// Store persists the whole directory at once.
type Store interface {
	// Load returns the saved directory. A missing store yields an empty one.
	Load(ctx context.Context) (*phonebook.Directory, error)
	// Save replaces the stored directory with dir.
	Save(ctx context.Context, dir *phonebook.Directory) error
}

// VCardStore keeps the directory in a single vCard file.
type VCardStore struct {
	Path string
}

// NewVCardStore creates a store backed by path.
func NewVCardStore(path string) *VCardStore {
	return &VCardStore{Path: path}
}

// Load implements Store. A card or field that would not survive the next
// Save fails the load instead of being dropped.
func (s *VCardStore) Load(ctx context.Context) (*phonebook.Directory, error) {
	log := slog.With(
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyFile, s.Path,
	)

	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		log.InfoContext(ctx, config.MsgStoreMissing)
		return phonebook.NewDirectory(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreOpen, err)
	}
	defer func() { _ = f.Close() }()

	dir, stats, err := decode(bufio.NewReader(f), true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreLoad, err)
	}

	log.InfoContext(ctx, config.MsgStoreLoaded,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Total),
			slog.Int(config.LogKeySkipped, stats.Skipped),
			slog.Int(config.LogKeyCount, dir.Len()),
		),
	)
	return dir, nil
}

// Save implements Store. The file is written next to its target and renamed
// over it, so a failed save leaves the previous file intact.
func (s *VCardStore) Save(ctx context.Context, dir *phonebook.Directory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	parent := filepath.Dir(s.Path)
	if err := os.MkdirAll(parent, config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	tmp, err := os.CreateTemp(parent, config.TempFilePattern)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	tmpName := tmp.Name()
	// Removing after a successful rename fails harmlessly.
	defer func() { _ = os.Remove(tmpName) }()

	w := bufio.NewWriter(tmp)
	if err := Encode(w, dir); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if err := os.Chmod(tmpName, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreRename, err)
	}

	slog.DebugContext(ctx, config.MsgStoreSaved,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyFile, s.Path,
		config.LogKeyCount, dir.Len(),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return nil
}
