package daemon

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/ecoquest-app/ecoquest/internal/api"
	"github.com/ecoquest-app/ecoquest/internal/app/encounter"
	"github.com/ecoquest-app/ecoquest/internal/app/ledger"
	"github.com/ecoquest-app/ecoquest/internal/app/notify"
	"github.com/ecoquest-app/ecoquest/internal/app/verify"
	"github.com/ecoquest-app/ecoquest/internal/app/wallet"
	"github.com/ecoquest-app/ecoquest/internal/domain"
	"github.com/ecoquest-app/ecoquest/internal/health"
	_ "github.com/ecoquest-app/ecoquest/internal/infra/metrics" // register Prometheus metrics
	"github.com/ecoquest-app/ecoquest/internal/infra/sqlite"
)

// Daemon is the EcoQuest engine runtime. It wires together all services —
// constructed once here and passed by reference, never ambient globals.
type Daemon struct {
	Config  Config
	DB      *sqlite.DB
	Ledger  *ledger.Service
	Spawner *encounter.Spawner
	Scorer  *verify.Scorer
	Notify  *notify.Service
	Wallet  *wallet.Service
	Checker *health.Checker
	Server  *api.Server

	sched  gocron.Scheduler
	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New(version string) (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg, version)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config, version string) (*Daemon, error) {
	db, err := sqlite.Open(ecoquestHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	lgr := ledger.New(db)
	w := wallet.NewService(db)
	spawner := encounter.New(lgr, w)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	scorer := verify.New(verify.NewMockClassifier(rng), verify.FileMetaReader{})

	policy := domain.NotificationPolicy{
		MaxPerDay:  cfg.Notifications.MaxPerDay,
		QuietStart: cfg.Notifications.QuietStart,
		QuietEnd:   cfg.Notifications.QuietEnd,
	}
	notifier := notify.NewServiceWithPolicy(db, policy, time.Now)

	checker := health.NewChecker(db, ecoquestHome())

	srv := api.NewServer(lgr, spawner, scorer, notifier, w, version)
	srv.SetHealthChecker(checker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:  cfg,
		DB:      db,
		Ledger:  lgr,
		Spawner: spawner,
		Scorer:  scorer,
		Notify:  notifier,
		Wallet:  w,
		Checker: checker,
		Server:  srv,
	}, nil
}

// Serve starts the background sweeps and the HTTP server, blocking until
// shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.startSweeper(); err != nil {
		return fmt.Errorf("start sweeper: %w", err)
	}

	go d.Checker.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // long for SSE
		IdleTimeout:  2 * time.Minute,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if d.sched != nil {
			_ = d.sched.Shutdown()
		}
		_ = httpServer.Shutdown(shutdownCtx)
		d.Ledger.Close() // flushes the pending ledger write
		_ = d.DB.Close()
	}()

	fmt.Printf("EcoQuest engine serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// startSweeper schedules the periodic encounter expiry sweep.
func (d *Daemon) startSweeper() error {
	interval, err := time.ParseDuration(d.Config.Encounters.SweepInterval)
	if err != nil || interval <= 0 {
		interval = 60 * time.Second
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			if removed := d.Spawner.Sweep(); removed > 0 {
				log.Printf("[daemon] swept %d expired encounters", removed)
			}
		}),
	)
	if err != nil {
		return err
	}

	sched.Start()
	d.sched = sched
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.sched != nil {
		_ = d.sched.Shutdown()
	}
	if d.Ledger != nil {
		d.Ledger.Close()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
