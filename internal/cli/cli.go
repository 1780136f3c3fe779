// Package cli implements the fswrangler command-line interface.
//
// fswrangler manages a flight simulator's content manifest: the XML file
// listing installed add-on packages and their activation status. Commands
// browse and filter the manifest, enable or disable packages in bulk,
// prune legacy entries, and manage backups, categorization rules, and the
// thumbnail cache. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - list: Browse and filter manifest packages
//   - enable/disable: Change package activation status
//   - save: Rewrite the manifest, optionally pruning legacy entries
//   - tui: Interactive full-screen manifest browser
//   - locate, rules, backup, thumbs, config: Supporting workflows
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fswrangler/fswrangler/pkg/classify"
	"github.com/fswrangler/fswrangler/pkg/config"
	"github.com/fswrangler/fswrangler/pkg/errors"
	"github.com/fswrangler/fswrangler/pkg/manifest"
)

// appName is the application name used for directories and display.
const appName = "fswrangler"

// appEnv is the resolved environment for one command invocation: the
// loaded configuration, categorization rules, and manifest path. It is
// built once per command so the core packages receive plain values
// instead of reaching into globals.
type appEnv struct {
	cfg      config.Config
	cfgPath  string
	rules    *classify.Ruleset
	manifest string
}

// newAppEnv loads configuration and rules (degrading to defaults with a
// debug log) and resolves the manifest path: the --manifest flag wins,
// then the configured last-used path, then host discovery.
func newAppEnv(ctx context.Context, manifestFlag string) (*appEnv, error) {
	logger := loggerFromContext(ctx)

	env := &appEnv{}

	cfgPath, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	env.cfgPath = cfgPath
	env.cfg, err = config.Load(cfgPath)
	if err != nil {
		logger.Debugf("Using default configuration: %v", err)
	}

	rp, err := rulesPath()
	if err != nil {
		return nil, err
	}
	env.rules, err = classify.LoadRules(rp)
	if err != nil {
		logger.Debugf("Using built-in categorization rules: %v", err)
	}

	switch {
	case manifestFlag != "":
		env.manifest = manifestFlag
	case env.cfg.ManifestPath != "":
		env.manifest = env.cfg.ManifestPath
	default:
		path, ok := manifest.Locate()
		if !ok {
			return nil, errors.New(errors.ErrCodeManifestNotFound,
				"no manifest configured and none discovered; pass --manifest or run '%s locate'", appName)
		}
		logger.Debugf("Discovered manifest at %s", path)
		env.manifest = path
	}

	return env, nil
}

// repo returns a repository over the resolved manifest.
func (e *appEnv) repo() *manifest.Repository {
	return manifest.NewRepository(e.manifest, e.rules)
}

// rememberManifest persists the resolved manifest path as the last-used
// one. Failures only degrade the next invocation's defaults, so they are
// logged rather than returned.
func (e *appEnv) rememberManifest(ctx context.Context) {
	if e.cfg.ManifestPath == e.manifest {
		return
	}
	e.cfg.ManifestPath = e.manifest
	if err := e.cfg.Save(e.cfgPath); err != nil {
		loggerFromContext(ctx).Warnf("Could not persist manifest path: %v", err)
	}
}

// rulesPath returns the categorization ruleset location inside the user
// config directory.
func rulesPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, "rules.json"), nil
}

// cacheDir returns the thumbnail cache directory, honoring XDG_CACHE_HOME
// and falling back to ~/.cache.
func cacheDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// thumbCachePath returns the thumbnail cache database file.
func thumbCachePath() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "thumbnails.json"), nil
}
