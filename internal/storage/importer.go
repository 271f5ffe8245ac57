package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tartampluch/go-phonebook/internal/config"
	"github.com/tartampluch/go-phonebook/internal/phonebook"
)

// Remote decodes an address book published at an http(s) URL.
type Remote interface {
	Fetch(ctx context.Context, url string) (*phonebook.Directory, Stats, error)
}

// Importer reads contacts from a local vCard file or an http(s) URL.
type Importer struct {
	Remote Remote
}

// NewImporter wires a RemoteBook authenticating as user.
func NewImporter(user string) *Importer {
	return &Importer{Remote: NewRemoteBook(user)}
}

// Import decodes every card found at source. Cards Decode skips are counted in Stats.
func (im *Importer) Import(ctx context.Context, source string) (*phonebook.Directory, Stats, error) {
	var (
		dir   *phonebook.Directory
		stats Stats
		err   error
	)
	switch {
	case source == "":
		err = errors.New(config.ErrSourceEmpty)
	case IsRemote(source) && im.Remote == nil:
		err = errors.New(config.ErrFetcherMissing)
	case IsRemote(source):
		dir, stats, err = im.Remote.Fetch(ctx, source)
	default:
		dir, stats, err = importFile(source)
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil, Stats{}, ctx.Err()
		}
		return nil, stats, fmt.Errorf("%s: %w", config.ErrImportSource, err)
	}

	slog.InfoContext(ctx, config.MsgImportDone,
		config.LogKeyComponent, config.CompStorage,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, stats.Total),
			slog.Int(config.LogKeySkipped, stats.Skipped),
		),
	)
	return dir, stats, nil
}

func importFile(path string) (*phonebook.Directory, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer func() { _ = f.Close() }()
	return Decode(bufio.NewReader(f))
}
