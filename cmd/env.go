package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/egelkids/egel/internal/config"
	"github.com/egelkids/egel/internal/llm"
	"github.com/egelkids/egel/internal/logger"
	"github.com/egelkids/egel/internal/problemgen"
	"github.com/egelkids/egel/internal/progress"
	"github.com/egelkids/egel/internal/remote"
	"github.com/egelkids/egel/internal/render"
	"github.com/egelkids/egel/internal/screens/practice"
	"github.com/egelkids/egel/internal/store"
	"github.com/egelkids/egel/internal/trace"
)

// env holds what the subcommands share. remote and provider are nil when
// the service URL or LLM credentials are not configured.
type env struct {
	cfg      *config.Config
	log      *logrus.Logger
	store    *store.Store
	progress *progress.SQLStore
	remote   *remote.Client
	provider llm.Provider

	closers []func() error
}

// openEnv loads configuration and opens the store. With tui set the logger
// writes to the log file instead of stderr.
func openEnv(cmd *cobra.Command, tui bool) (*env, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DB.Driver = store.DriverSQLite
		cfg.DB.Path = p
	}

	e := &env{cfg: cfg}

	var out io.Writer = os.Stderr
	if tui {
		path, err := cfg.LogFile()
		if err != nil {
			return nil, err
		}
		f, err := logger.OpenFile(path)
		if err != nil {
			return nil, err
		}
		e.closers = append(e.closers, f.Close)
		out = f
	}
	e.log, err = logger.New(cfg.Log, out)
	if err != nil {
		e.Close()
		return nil, err
	}

	e.store, err = openStore(cfg.DB)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.closers = append(e.closers, e.store.Close)
	e.progress = progress.NewSQLStore(e.store.SnapshotRepo(),
		progress.WithKeep(cfg.DB.KeepSnapshots),
		progress.WithSequence(e.store.LastSequence))

	e.remote = e.openRemote(ctx)

	if lc, ok := llm.Resolve(cfg.LLM); ok {
		p, err := llm.NewProvider(ctx, lc, e.store.EventRepo(), e.log)
		if err != nil {
			e.log.WithError(err).Warn("LLM provider unavailable, explanations disabled")
		} else {
			e.provider = p
		}
	}
	return e, nil
}

func openStore(c config.DBConfig) (*store.Store, error) {
	if c.Driver == store.DriverPostgres {
		st, err := store.OpenDriver(store.DriverPostgres, c.DSN)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return st, nil
	}

	path := c.Path
	if path == "" {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	} else if err := store.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// openRemote builds the service client. A Redis cache is used when
// configured and reachable; otherwise responses are cached in memory.
func (e *env) openRemote(ctx context.Context) *remote.Client {
	sc := e.cfg.Service
	var cache remote.Cache = remote.NewMemoryCache()
	if addr := e.cfg.Cache.RedisAddr; addr != "" && sc.BaseURL != "" {
		client, err := remote.DialRedis(ctx, addr, e.cfg.Cache.RedisPassword, e.cfg.Cache.RedisDB)
		if err != nil {
			e.log.WithError(err).WithField("addr", addr).Warn("redis unavailable, using in-memory cache")
		} else {
			e.closers = append(e.closers, client.Close)
			cache = remote.NewRedisCache(client)
		}
	}

	rc, err := remote.New(remote.Config{
		BaseURL:         sc.BaseURL,
		Timeout:         sc.Timeout,
		MaxAttempts:     sc.MaxAttempts,
		BreakerFailures: sc.BreakerFailures,
		BreakerTimeout:  sc.BreakerTimeout,
		CacheTTL:        e.cfg.Cache.TTL,
	}, remote.WithCache(cache), remote.WithLogger(e.log))
	if err != nil {
		if !errors.Is(err, remote.ErrNotConfigured) {
			e.log.WithError(err).Warn("service client disabled")
		}
		return nil
	}
	return rc
}

// tracer returns the tracer for source: local, remote, llm or auto.
func (e *env) tracer(source string) (trace.Tracer, error) {
	local := trace.NewLocalTracer()
	switch source {
	case "local":
		return local, nil
	case "remote":
		if e.remote == nil {
			return nil, fmt.Errorf("remote tracer needs service.base_url (EGEL_SERVICE_BASE_URL)")
		}
		return trace.NewRemoteTracer(e.remote), nil
	case "llm":
		if e.provider == nil {
			return nil, fmt.Errorf("llm tracer needs an LLM provider (EGEL_LLM_PROVIDER and an API key)")
		}
		return trace.NewFallback(e.log, trace.NewLLMTracer(e.provider, trace.DefaultExplainConfig()), local), nil
	case "auto", "":
		if e.remote == nil {
			return local, nil
		}
		return trace.NewFallback(e.log, trace.NewRemoteTracer(e.remote), local), nil
	}
	return nil, fmt.Errorf("unknown tracer source %q (want local, remote, llm or auto)", source)
}

func (e *env) renderer() render.Renderer {
	if e.remote == nil {
		return nil
	}
	return render.NewClient(e.remote)
}

func (e *env) generator() *problemgen.Generator {
	if seed := e.cfg.Play.Seed; seed != 0 {
		return problemgen.NewGenerator(problemgen.NewSource(seed))
	}
	return problemgen.NewGenerator(problemgen.NewRandomSource())
}

func (e *env) practiceDeps() practice.Deps {
	tr, err := e.tracer(e.cfg.Play.Tracer)
	if err != nil {
		e.log.WithError(err).Warn("falling back to the local tracer")
		tr = trace.NewLocalTracer()
	}

	deps := practice.Deps{
		Generator:    e.generator(),
		Store:        e.progress,
		Events:       e.store.EventRepo(),
		Tracer:       tr,
		Display:      render.DisplayFromConfig(e.cfg.Render),
		Log:          e.log,
		AdvanceDelay: e.cfg.Play.AdvanceDelay,
	}
	if r := e.renderer(); r != nil {
		deps.Renderer = r
		if dir, err := config.DefaultDir(); err == nil {
			deps.DiagramPath = filepath.Join(dir, "diagram.svg")
		}
	}
	return deps
}

// Close releases everything openEnv acquired, in reverse order.
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
	e.closers = nil
}
