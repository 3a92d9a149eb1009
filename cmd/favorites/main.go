package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/favorites/internal/app"
	"github.com/MrSnakeDoc/favorites/internal/config"
)

// globalFlags override the FAVS_* environment for a single invocation.
type globalFlags struct {
	root     string
	dataDir  string
	store    string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "favorites",
		Short: "Keep a favorites list of project assets",
		Long: `favorites tracks assets of a project tree by their stable identity,
so entries survive renames and moves. Favorites can be grouped, sorted
and served over a small HTTP API.

Configuration comes from FAVS_* environment variables (and a .env file),
the flags below override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.root, "root", "", "project root (FAVS_PROJECT_ROOT)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "data directory holding Editor/FavoriteAssetsData.json (FAVS_DATA_DIR)")
	pf.StringVar(&flags.store, "store", "", "store backend: file, redis or memory (FAVS_STORE)")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn or error (FAVS_LOG_LEVEL)")

	rootCmd.AddCommand(
		serveCmd(flags),
		addCmd(flags),
		rmCmd(flags),
		lsCmd(flags),
		openCmd(flags),
		mvCmd(flags),
		clearCmd(flags),
		cleanupCmd(flags),
		groupCmd(flags),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig reads the environment and applies the flags on top.
func (f *globalFlags) loadConfig() (cfg *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid configuration: %v", r)
		}
	}()

	cfg = config.Load()
	if f.root != "" {
		cfg.ProjectRoot = f.root
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.store != "" {
		cfg.Store = f.store
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	cfg.Validate()
	return cfg, nil
}

// withApp opens the app for one command and saves on the way out.
func (f *globalFlags) withApp(fn func(a *app.App) error) (err error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}
