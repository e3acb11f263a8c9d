package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/quantagraph/internal/catalog"
	"github.com/dshills/quantagraph/internal/catalog/sqlstore"
	"github.com/dshills/quantagraph/internal/config"
	"github.com/dshills/quantagraph/internal/errors"
	"github.com/dshills/quantagraph/internal/feature"
	"github.com/dshills/quantagraph/internal/log"
	"github.com/dshills/quantagraph/internal/planner"
)

// session is the per-invocation state shared by commands.
type session struct {
	opts      *RootOptions
	cfg       *config.Config
	features  *feature.Manager
	logger    log.Logger
	formatter *OutputFormatter
}

// newSession resolves configuration from file, environment and flags and
// sets up logging on the command's error stream.
func newSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	cfg := config.DefaultConfig()
	if opts.ConfigFile != "" {
		var err error
		cfg, err = config.LoadFromFile(opts.ConfigFile)
		if err != nil {
			return nil, formatter.commandError("failed to load config file", err)
		}
	}
	cfg.ApplyEnv()
	cfg.LoadFromFlags(opts.Catalog, opts.DSN, opts.Verbose)
	if err := cfg.Validate(); err != nil {
		return nil, formatter.commandError("invalid configuration", err)
	}

	return &session{
		opts:      opts,
		cfg:       cfg,
		features:  cfg.Features(),
		logger:    log.Configure(cfg.Log, cmd.ErrOrStderr()),
		formatter: formatter,
	}, nil
}

// openStore opens the configured snapshot store.
func (s *session) openStore(ctx context.Context) (*sqlstore.Store, error) {
	if s.cfg.Catalog.DSN == "" {
		return nil, errors.New(errors.ConfigFileError, "no snapshot store configured").
			WithHint("Pass --dsn or set QUANTAGRAPH_DSN.")
	}
	return sqlstore.Open(ctx, s.cfg.Catalog.DSN)
}

// loadSnapshot reads the catalog snapshot from a file, the store, or
// returns an empty snapshot when neither is configured.
func (s *session) loadSnapshot(ctx context.Context) (*catalog.Snapshot, error) {
	defer log.Latency(s.logger, time.Now(), "load_snapshot")

	switch {
	case s.cfg.Catalog.Snapshot != "":
		s.logger.Debug("loading catalog snapshot", log.String("file", s.cfg.Catalog.Snapshot))
		return catalog.LoadSnapshot(s.cfg.Catalog.Snapshot)
	case s.cfg.Catalog.DSN != "":
		store, err := s.openStore(ctx)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		s.logger.Debug("loading catalog snapshot",
			log.String("driver", store.Driver()),
			log.String("snapshot", s.opts.Snapshot))
		return store.Load(ctx, s.opts.Snapshot)
	default:
		return &catalog.Snapshot{}, nil
	}
}

// newPlanner builds the leaf planner over the configured catalog.
func (s *session) newPlanner(ctx context.Context) (*planner.LeafPlanner, error) {
	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	cat, stats, err := snap.BuildWith(s.cfg.StatsConfig(s.features))
	if err != nil {
		return nil, err
	}

	p := planner.NewLeafPlanner(cat, stats, s.cfg.PlannerOptions(s.features))
	p.SetLogger(s.logger)
	return p, nil
}
