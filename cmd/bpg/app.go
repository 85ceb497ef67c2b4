package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/matsen/blueprint/internal/capability"
	"github.com/matsen/blueprint/internal/clipboard"
	"github.com/matsen/blueprint/internal/config"
	"github.com/matsen/blueprint/internal/logging"
	"github.com/matsen/blueprint/internal/project"
	"github.com/matsen/blueprint/internal/session"
	"github.com/matsen/blueprint/internal/storage"
)

const envAdminHint = capability.EnvAdminKey + " or " + capability.EnvAdminEmail

// EnvRedisURL overrides store.redis_url from the global config.
const EnvRedisURL = "BPG_REDIS_URL"

// app bundles everything a command needs: the repository on disk, its
// store, and a session on the selected graph.
type app struct {
	root   string
	cfg    *config.Config
	global *config.GlobalConfig
	kv     storage.Store
	repo   *storage.Repository
	sess   *session.Session
	log    zerolog.Logger
	closer io.Closer

	// opened collects projects opened during the command.
	opened []project.Summary
}

// mustFindRepository finds and validates the repository, exits on error.
// Returns the repository root path.
func mustFindRepository() string {
	cwd, err := os.Getwd()
	if err != nil {
		exitWithError(ExitError, "getting current directory: %v", err)
	}
	root, err := config.FindRepository(cwd)
	if err != nil {
		exitWithError(ExitConfigError, "%v\n\nRun 'bpg init' to create one.", err)
	}
	return root
}

// mustLoadConfig loads configuration, exits on error.
func mustLoadConfig(repoRoot string) *config.Config {
	cfg, err := config.Load(repoRoot)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	return cfg
}

// mustLoadGlobalConfig loads ~/.config/bpg/config.yml, exits on error.
func mustLoadGlobalConfig() *config.GlobalConfig {
	g, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return g
}

// mustOpenStore opens the Redis store when one is configured and the
// repository's SQLite store otherwise, exits on error.
// The caller is responsible for calling Close() on the returned store.
func mustOpenStore(repoRoot string) storage.Store {
	_ = godotenv.Load()
	sc := mustLoadGlobalConfig().Store
	if url := os.Getenv(EnvRedisURL); url != "" {
		sc.RedisURL = url
	}

	if sc.RedisURL != "" {
		ns := sc.Namespace
		if ns == "" {
			ns = "bpg:" + filepath.Base(repoRoot) + ":"
		}
		kv, err := storage.OpenRedis(context.Background(), sc.RedisURL, ns)
		if err != nil {
			exitWithError(ExitError, "opening redis store: %v", err)
		}
		return kv
	}

	kv, err := storage.OpenSQLite(config.DBPath(repoRoot))
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	return kv
}

// credentials reads the admin credentials from the environment, after
// loading a .env file if one exists.
func credentials() capability.Credentials {
	_ = godotenv.Load()
	return capability.Credentials{
		Passphrase: os.Getenv(capability.EnvAdminKey),
		Email:      os.Getenv(capability.EnvAdminEmail),
	}
}

// mustAuthorize decides edit mode. Without --edit the session is read-only.
// With --edit and no admin gate configured, the local user is trusted.
func mustAuthorize(global *config.GlobalConfig, log zerolog.Logger) bool {
	if !editFlag {
		return false
	}
	gate := capability.NewGate(global.Admin)
	if !gate.Configured() {
		log.Debug().Msg("no admin credentials configured; allowing edit mode")
		return true
	}
	if err := gate.Check(credentials()); err != nil {
		exitWithError(ExitAuthError, "%v (set %s)", err, envAdminHint)
	}
	return true
}

// mustRequireEdit exits unless --edit was given and the gate allows it. It
// is used by commands that change stored data without opening a session.
func mustRequireEdit() {
	if !mustAuthorize(mustLoadGlobalConfig(), zerolog.Nop()) {
		exitWithError(ExitAuthError, "this command changes stored data; pass --edit")
	}
}

// mustOpenApp opens the repository and a session on the selected graph.
// A corrupt graph is reported as a warning and opened empty.
func mustOpenApp() *app {
	a := &app{root: mustFindRepository()}
	a.cfg = mustLoadConfig(a.root)
	a.global = mustLoadGlobalConfig()

	log, closer, err := logging.New(a.global.Log)
	if err != nil {
		exitWithError(ExitConfigError, "configuring logging: %v", err)
	}
	a.log, a.closer = log, closer

	a.kv = mustOpenStore(a.root)
	a.repo = storage.NewRepository(a.kv)

	w, h := a.cfg.ViewSize()
	a.sess = session.New(a.repo, session.Options{
		Logger:        a.log,
		Limits:        a.global.Canvas.Zoom,
		SimMaxPasses:  a.global.Canvas.SimMaxPasses,
		Editable:      mustAuthorize(a.global, a.log),
		ViewWidth:     w,
		ViewHeight:    h,
		Clipboard:     clipboard.System{},
		OnOpenProject: func(p project.Summary) { a.opened = append(a.opened, p) },
	})

	graphID := graphFlag
	if graphID == "" {
		graphID = a.cfg.Graph()
	}
	if err := a.sess.Switch(graphID); err != nil {
		switch {
		case errors.Is(err, storage.ErrCorrupt):
			warnHuman("%v; graph opened empty", err)
		case errors.Is(err, config.ErrInvalidGraphID):
			a.exit(ExitError, "%v", err)
		default:
			a.exit(ExitDataError, "opening graph: %v", err)
		}
	}
	return a
}

// Close releases the store and the log file.
func (a *app) Close() {
	if a.kv != nil {
		a.kv.Close()
	}
	if a.closer != nil {
		a.closer.Close()
	}
}

// exit closes the app and exits with an error.
func (a *app) exit(code int, format string, args ...any) {
	a.Close()
	exitWithError(code, format, args...)
}

// mustEditable exits unless the session is in edit mode.
func (a *app) mustEditable() {
	if !a.sess.Editable() {
		a.exit(ExitAuthError, "this command changes the graph; pass --edit")
	}
}
