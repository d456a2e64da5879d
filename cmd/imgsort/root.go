package main

import (
	"imgsort/internal/catalog"
	"imgsort/internal/config"
	"imgsort/internal/errors"
	"imgsort/internal/journal"
	"imgsort/internal/log"
	"imgsort/internal/organize"
	"imgsort/internal/session"
	"imgsort/internal/watch"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	dirFlag string
	debug   bool
	dryRun  bool
	cfg     *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfgFile, dirFlag, debug, dryRun, cfg = "", "", false, false, nil

	rootCmd := &cobra.Command{
		Use:   "imgsort",
		Short: "Triage a folder of images into category sub-folders",
		Long: `imgsort walks through the images of one folder, lets you label each one
with a category, and then moves every labelled image into a sub-folder named
after its label. Images can also be grouped by keywords found in their names.

Annotations survive restarts in a JSON ledger, and every move is recorded in
a SQLite journal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env may carry IMGSORT_CONFIG
			_ = godotenv.Load()
			log.SetDebug(debug)

			var err error
			if cfgFile != "" {
				cfg, err = config.LoadConfigFile(cfgFile)
			} else {
				cfg, err = config.LoadConfig()
			}
			if err != nil {
				return err
			}

			if dirFlag != "" {
				cfg.DefaultDirectory = dirFlag
			}
			if cmd.Flags().Changed("dry-run") {
				cfg.Settings.DryRun = dryRun
			}
			log.LogWithFields(
				log.F("directory", cfg.DefaultDirectory),
				log.F("ledger", cfg.JSONPath),
			).Debug("configuration loaded")
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $IMGSORT_CONFIG or ./config.yml)")
	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "d", "", "image directory (overrides default_directory)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "report moves without touching any file")

	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewGUICmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewAnnotateCmd())
	rootCmd.AddCommand(NewMoveCmd())
	rootCmd.AddCommand(NewMoveKeywordCmd())
	rootCmd.AddCommand(NewResetCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewSlideshowCmd())

	return rootCmd
}

// app bundles what a command needs to drive a session.
type app struct {
	session *session.Session
	engine  *organize.Engine
	journal *journal.Journal
}

// openApp builds a session from cfg. With interactive set, an invalid start
// directory is logged and the session is still returned so the user can pick
// another folder; otherwise it is an error.
func openApp(interactive bool) (*app, error) {
	c, err := catalog.New(cfg.Extensions(), cfg.IgnorePatterns...)
	if err != nil {
		return nil, err
	}

	a := &app{engine: organize.NewWithConfig(cfg, c)}
	if !cfg.DisableJournal {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, err
		}
		a.journal = j
		a.engine.SetRecorder(j)
	}

	a.session, err = session.FromConfig(cfg, a.engine)
	if err != nil {
		if a.session == nil || !interactive || !errors.IsInvalidDirectory(err) {
			a.Close()
			return nil, err
		}
		log.LogWithError(err).Warn("starting without a valid directory")
	}
	return a, nil
}

// Close releases the journal.
func (a *app) Close() {
	if a.journal == nil {
		return
	}
	if err := a.journal.Close(); err != nil {
		log.LogWithError(err).Warn("failed to close journal")
	}
}

// openWatcher watches the session directory when cfg.Watch is set. A nil
// watcher means live refresh is off.
func openWatcher(dir string) *watch.Watcher {
	if !cfg.Watch {
		return nil
	}
	w, err := watch.New(watch.Extensions(cfg.Extensions()))
	if err != nil {
		log.LogWithError(err).Warn("file watching disabled")
		return nil
	}
	if err := w.AddDirectory(dir); err != nil {
		log.LogWithError(err).Warn("file watching disabled")
		_ = w.Close()
		return nil
	}
	if err := w.Start(); err != nil {
		log.LogWithError(err).Warn("file watching disabled")
		_ = w.Close()
		return nil
	}
	return w
}
