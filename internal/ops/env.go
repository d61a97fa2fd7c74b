package ops

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"
	"time"

	"github.com/hpungsan/hexmark/internal/bookmark"
	"github.com/hpungsan/hexmark/internal/config"
	"github.com/hpungsan/hexmark/internal/db"
	"github.com/hpungsan/hexmark/internal/docs"
	"github.com/hpungsan/hexmark/internal/errors"
	"github.com/hpungsan/hexmark/internal/fsys"
	"github.com/hpungsan/hexmark/internal/present"
	"github.com/hpungsan/hexmark/internal/reconcile"
)

// Env is the bookmark subsystem: the registry, its row projection and the
// reconciliation engine, backed by one database. Every operation holds the
// env lock, reloads the registry from the database and writes it back after
// a mutation, so several processes can share one store.
type Env struct {
	mu sync.Mutex

	db      *sql.DB
	cfg     *config.Config
	baseDir string
	fs      fsys.FileSystem
	docs    docs.Documents
	logger  *slog.Logger
	now     func() time.Time

	reg    *bookmark.Registry
	rows   *present.Adapter
	engine *reconcile.Engine
}

// Option configures an Env.
type Option func(*Env)

// WithFileSystem replaces the host filesystem oracle.
func WithFileSystem(fs fsys.FileSystem) Option {
	return func(e *Env) { e.fs = fs }
}

// WithDocuments supplies the set of open documents.
func WithDocuments(d docs.Documents) Option {
	return func(e *Env) { e.docs = d }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Env) { e.logger = l }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Env) { e.now = now }
}

// WithBaseDir sets the data directory used for default export paths.
func WithBaseDir(dir string) Option {
	return func(e *Env) { e.baseDir = dir }
}

// Open builds an Env over database and loads the registry.
func Open(ctx context.Context, database *sql.DB, cfg *config.Config, opts ...Option) (*Env, error) {
	if database == nil {
		return nil, errors.NewInvalidRequest("database is required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	e := &Env{
		db:     database,
		cfg:    cfg,
		fs:     fsys.OS{},
		docs:   docs.None{},
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.reg = bookmark.NewRegistry(bookmark.WithClock(e.now))
	e.rows = present.NewAdapter(e.reg, e.docs, present.WithTimeFormat(cfg.TimeFormat))
	e.engine = reconcile.New(e.fs, e.docs, e.logger)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// Config returns the configuration the env was opened with.
func (e *Env) Config() *config.Config {
	return e.cfg
}

// Flush writes the registry to the database.
func (e *Env) Flush(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flush(ctx)
}

// Close flushes the registry. The database is owned by the caller.
func (e *Env) Close(ctx context.Context) error {
	return e.Flush(ctx)
}

// load replaces the in-memory registry with the stored slots and rebuilds
// the rows. Callers hold e.mu.
func (e *Env) load(ctx context.Context) error {
	slots, err := db.LoadSlots(ctx, e.db)
	if err != nil {
		return err
	}
	if err := e.reg.Restore(slots); err != nil {
		return errors.NewInternal(err)
	}
	e.rows.FullRefresh()
	return nil
}

// flush writes every slot. Callers hold e.mu.
func (e *Env) flush(ctx context.Context) error {
	return db.SaveSlots(ctx, e.db, e.reg.Slots())
}

// resolve finds the slot addressed by exactly one of index or name.
func (e *Env) resolve(index *int, name string) (int, bookmark.Bookmark, error) {
	if index != nil && name != "" {
		return -1, bookmark.Bookmark{}, errors.NewInvalidRequest("specify either index or name, not both")
	}
	if index == nil && name == "" {
		return -1, bookmark.Bookmark{}, errors.NewInvalidRequest("must specify either index or name")
	}

	i := -1
	if index != nil {
		i = *index
	} else {
		var err error
		if i, err = e.reg.LookupByName(name); err != nil {
			return -1, bookmark.Bookmark{}, err
		}
	}

	b, err := e.reg.LookupByIndex(i)
	if err != nil {
		return -1, bookmark.Bookmark{}, err
	}
	return i, b, nil
}

// tracker returns the open document holding path, if it follows bookmarks.
func (e *Env) tracker(path string) bookmark.Tracker {
	d, ok := e.docs.IsOpen(path)
	if !ok {
		return nil
	}
	t, _ := d.(bookmark.Tracker)
	return t
}

// forget tells the open document holding path to stop following index.
func (e *Env) forget(path string, index int) {
	d, ok := e.docs.IsOpen(path)
	if !ok {
		return
	}
	if f, ok := d.(interface{ Forget(int) }); ok {
		f.Forget(index)
	}
}
