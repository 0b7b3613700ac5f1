// Package cli implements the myai terminal client: it plans goals against
// the backend, keeps favorites, recent prompts and the display language in
// a local bbolt file and builds copy-paste prompts for plan steps.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/briandowns/spinner"
	"github.com/lk2023060901/myai/internal/client"
	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/prefs"
)

const (
	dbFile        = "myai.db"
	prefsBucket   = "prefs"
	sessionBucket = "session"
)

// Options are the global flags.
type Options struct {
	Dir     string
	Server  string
	Verbose bool
	NoColor bool
}

// Streams are the process streams, replaced in tests.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// App is the state shared by all commands of one invocation.
type App struct {
	Streams

	Dir     string
	Profile *Profile
	Favs    *prefs.Favorites
	Recents *prefs.Recents
	Lang    *prefs.Language
	API     *client.Client
	Log     *logger.Logger

	db    *kv.BoltDB
	store kv.Store
}

// DefaultDir is the state directory under the user config dir.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "myai")
	}
	return ".myai"
}

// Open loads the profile, opens the local store and migrates legacy
// favorites.
func Open(ctx context.Context, opts Options, s Streams) (*App, error) {
	dir := opts.Dir
	if dir == "" {
		dir = DefaultDir()
	}

	log, err := logger.New(logger.CLIConfig(opts.Verbose))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	profile, err := LoadProfile(profilePath(dir))
	if err != nil {
		return nil, err
	}
	if opts.Server != "" {
		profile.Server.BaseURL = opts.Server
	}

	db, err := kv.OpenBolt(filepath.Join(dir, dbFile))
	if err != nil {
		return nil, err
	}
	store, err := db.Store(prefsBucket)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	session, err := db.Store(sessionBucket)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	api, err := client.New(&profile.Server, client.NewJar(ctx, session, log), log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("server %q: %w", profile.Server.BaseURL, err)
	}

	a := &App{
		Streams: s,
		Dir:     dir,
		Profile: profile,
		Favs:    prefs.OpenFavorites(ctx, store, log),
		Recents: prefs.NewRecents(store, log),
		Lang:    prefs.NewLanguage(store, log),
		API:     api,
		Log:     log,
		db:      db,
		store:   store,
	}
	a.Recents.Load(ctx)
	a.Lang.Load(ctx)
	return a, nil
}

// Close releases the client and the store.
func (a *App) Close() error {
	a.API.Close()
	_ = a.Log.Sync()
	return a.db.Close()
}

// spin shows a spinner on the error stream while work runs. The spinner
// stays silent when stdout is not a terminal.
func (a *App) spin(msg string) func() {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(a.Err))
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}

// requireSession fails early with a hint when no session cookie is stored.
func (a *App) requireSession() error {
	if !a.API.SignedIn() {
		return errNotSignedIn
	}
	return nil
}

var errNotSignedIn = errors.New("not signed in, run `myai auth login` first")

// friendly turns client errors into one-line messages.
func friendly(err error) error {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotSignedIn):
		return errNotSignedIn
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return errors.New(apiErr.Message)
	default:
		return err
	}
}
