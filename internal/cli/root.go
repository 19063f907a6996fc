package cli

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/draftplane/recall/internal/config"
	"github.com/draftplane/recall/internal/index"
	"github.com/draftplane/recall/internal/loader"
	"github.com/draftplane/recall/internal/logger"
	"github.com/draftplane/recall/internal/memstore"
	"github.com/draftplane/recall/internal/timeline"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Context-budgeted memory retrieval for long-running agents",
	Long: "Recall assembles the most relevant prior context for a query under a fixed\n" +
		"token budget, disclosing memory progressively: topic summaries first, the\n" +
		"recent timeline second, full memory records only when needed.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $HOME/.recall/config.yaml)")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(rememberCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statusCmd)
}

// runtime bundles the collaborators the commands share.
type runtime struct {
	cfg config.Config
	log zerolog.Logger
	tl  *timeline.Timeline
	db  *memstore.DB // nil when the store could not be opened
}

func openRuntime() (*runtime, error) {
	path := cfgPath
	if path == "" {
		if dir, err := config.DefaultDir(); err == nil {
			path = filepath.Join(dir, "config.yaml")
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Resolve(); err != nil {
		return nil, err
	}

	log := logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	tl := timeline.Open(cfg.Memory.TimelinePath, log)

	db, err := memstore.Open(cfg.Store.Path)
	if err != nil {
		// Tier 3 degrades to disabled; tiers 1 and 2 still work.
		log.Warn().Err(err).Str("path", cfg.Store.Path).Msg("full memory store unavailable")
		db = nil
	}

	return &runtime{cfg: cfg, log: log, tl: tl, db: db}, nil
}

func (r *runtime) close() {
	if r.db != nil {
		r.db.Close()
	}
}

func (r *runtime) newLoader() *loader.Loader {
	idx := index.NewFileIndex(r.cfg.Memory.IndexPath, index.KeywordScorer{}, r.log)

	var resolvers []memstore.Resolver
	if r.db != nil {
		resolvers = r.db.Resolvers()
	}

	return loader.New(idx, r.tl, resolvers, loader.Options{
		RelevanceThreshold:  r.cfg.Loader.RelevanceThreshold,
		EscalationThreshold: r.cfg.Loader.EscalationThreshold,
		TimelineLimit:       r.cfg.Loader.TimelineLimit,
	}, r.log)
}
