// Package infra provides market snapshot sources.
package infra

import (
	"context"
	"encoding/json"
	"os"

	"github.com/arbx-labs/routeval/business/marketdata/domain"
	"github.com/arbx-labs/routeval/internal/apperror"
	"github.com/arbx-labs/routeval/internal/circuitbreaker"
	"github.com/arbx-labs/routeval/internal/logger"
	"github.com/sony/gobreaker/v2"
)

// FileProvider loads market snapshots from a JSON file. Repeated load
// failures (file rewritten mid-read by the collector, truncated JSON)
// trip a circuit breaker so watch mode backs off instead of hammering
// a broken feed.
type FileProvider struct {
	path   string
	log    *logger.Logger
	cb     *circuitbreaker.Breaker[*domain.Snapshot]
}

// NewFileProvider creates a snapshot provider reading from path.
func NewFileProvider(path string, log *logger.Logger) *FileProvider {
	cfg := circuitbreaker.DefaultConfig("snapshot-file")
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}

	return &FileProvider{
		path: path,
		log:  log,
		cb:   circuitbreaker.New[*domain.Snapshot](cfg),
	}
}

// Load reads and validates the snapshot file.
func (p *FileProvider) Load(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := p.cb.Execute(func() (*domain.Snapshot, error) {
		return p.load(ctx)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, apperror.New(apperror.CodeCircuitOpen,
				apperror.WithCause(err),
				apperror.WithContext(p.path))
		}
		return nil, err
	}

	return snap, nil
}

func (p *FileProvider) load(ctx context.Context) (*domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, apperror.New(apperror.CodeSnapshotLoadFailed,
			apperror.WithCause(err),
			apperror.WithContext(p.path))
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, apperror.New(apperror.CodeSnapshotLoadFailed,
			apperror.WithCause(err),
			apperror.WithContext(p.path))
	}

	if err := snap.Validate(); err != nil {
		return nil, err
	}

	p.log.Debug(ctx, "snapshot loaded", "path", p.path, "routes", len(snap.Routes))

	return &snap, nil
}
