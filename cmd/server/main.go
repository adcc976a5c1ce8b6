package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"magictrail.dev/internal/persistence/archive"
	persistlog "magictrail.dev/internal/persistence/log"
	"magictrail.dev/internal/persistence/savestore"
	"magictrail.dev/internal/session"
	"magictrail.dev/internal/sim/catalogs"
	"magictrail.dev/internal/sim/trail"
	"magictrail.dev/internal/sim/tuning"
	"magictrail.dev/internal/transport/httpapi"
	"magictrail.dev/internal/transport/ws"
)

func main() {
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	ec, err := loadEnv(".env")
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	var (
		addr       = flag.String("addr", ec.Addr, "http listen address")
		configDir  = flag.String("configs", ec.ConfigDir, "config directory")
		dataDir    = flag.String("data", ec.DataDir, "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		backend    = flag.String("saves", ec.SaveBackend, "save backend: sqlite or memory")
		seed       = flag.Int64("seed", ec.Seed, "base seed for session rolls (0: time based)")
		tickLog    = flag.Bool("tick_log", ec.TickLog, "write per-day tick history under <data>/ticks")
		auditLog   = flag.Bool("audit_log", ec.AuditLog, "write save audit entries under <data>/audit")
	)
	flag.Parse()

	if !validBackend(*backend) {
		logger.Fatalf("unknown save backend %q", *backend)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}
	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Fatalf("load tuning: %v", err)
		}
		logger.Printf("tuning not found (%s); using defaults", tp)
		tune = tuning.Defaults()
	}

	if err := os.MkdirAll(*dataDir, 0o755); err != nil {
		logger.Fatalf("data dir: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	store, err := openStore(ctx, *backend, *dataDir, cats, logger)
	if err != nil {
		logger.Fatalf("open save store: %v", err)
	}
	defer store.Close()

	base := session.Config{
		Tuning:   tune,
		Catalogs: cats,
		Store:    store,
		Archive:  archive.New(*dataDir),
		Seed:     *seed,
	}
	if base.Seed == 0 {
		base.Seed = time.Now().UnixNano()
	}
	if *tickLog {
		tl := persistlog.NewTickLogger(*dataDir)
		defer tl.Close()
		base.TickLog = tl
	}
	if *auditLog {
		al := persistlog.NewAuditLogger(*dataDir)
		defer al.Close()
		base.Audit = al
	}

	api := httpapi.NewServer(store, logger)
	api.Validate = func(s trail.Snapshot) error {
		g, err := trail.New(tune, cats, rand.New(rand.NewSource(1)))
		if err != nil {
			return err
		}
		return g.Restore(s)
	}

	mux := http.NewServeMux()
	api.Register(mux)
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(200)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(base, logger).Handler())

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel2()
		_ = srv.Shutdown(ctx2)
	}()

	logger.Printf("listening on %s (saves=%s, route %d miles over %d stops)", *addr, *backend, cats.Route.Waypoints[len(cats.Route.Waypoints)-1].DistanceFromStart, len(cats.Route.Waypoints))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("ListenAndServe: %v", err)
	}
}

func openStore(ctx context.Context, backend, dataDir string, cats *catalogs.Catalogs, logger *log.Logger) (savestore.Store, error) {
	if backend == "memory" {
		logger.Printf("saves are kept in memory only")
		return savestore.NewMemoryStore(), nil
	}
	path := filepath.Join(dataDir, "saves.sqlite")
	st, err := savestore.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	if err := st.UpsertCatalogs(ctx, cats.Digests()); err != nil {
		logger.Printf("record catalog digests: %v", err)
	}
	logger.Printf("saves in %s", path)
	return st, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
