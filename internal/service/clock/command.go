package clock

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/spf13/afero"
	"google.golang.org/grpc"

	api "github.com/oshokin/alarm-clock/internal/api/grpc/alarm"
	httpapi "github.com/oshokin/alarm-clock/internal/api/http/alarm"
	"github.com/oshokin/alarm-clock/internal/config"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
	"github.com/oshokin/alarm-clock/internal/preset"
	"github.com/oshokin/alarm-clock/internal/presenter"
	repo "github.com/oshokin/alarm-clock/internal/repository/settings"
	"github.com/oshokin/alarm-clock/internal/scheduler"
	"github.com/oshokin/alarm-clock/internal/trigger"
)

// Options controls the alarm-clock daemon.
type Options struct {
	// ConfigPath specifies the path to settings YAML file.
	ConfigPath string
	// ListenAddress overrides the gRPC listen address.
	ListenAddress string
	// HTTPAddress overrides the HTTP listen address.
	HTTPAddress string
	// ArmAt arms the alarm at start, overriding the configured alarm time.
	ArmAt string
	// RepeatDaily is used together with ArmAt.
	RepeatDaily bool
	// Label is used together with ArmAt.
	Label string
	// AllowMultiple skips the single-instance check.
	AllowMultiple bool
	// TickInterval is the countdown refresh period; one second by default.
	TickInterval time.Duration
}

// DefaultTickInterval is how often the countdown is refreshed.
const DefaultTickInterval = time.Second

// ErrNoServerAddress indicates missing server configuration.
var ErrNoServerAddress = errors.New("no server address configured")

// Run starts the daemon and blocks until ctx is cancelled or a server fails.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(ctx, "alarm-clock")

	settings, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	if err = logger.Configure(settings.LogLevel); err != nil {
		return fmt.Errorf("configure logger: %w", err)
	}

	if !opts.AllowMultiple {
		if err = ensureSingleInstance(); err != nil {
			return err
		}
	}

	listenAddress, err := resolveListenAddress(settings.ServerAddress, opts.ListenAddress)
	if err != nil {
		return fmt.Errorf("resolve listen address: %w", err)
	}

	repository, closeRepository, err := openRepository(ctx, settings.Settings)
	if err != nil {
		return err
	}

	defer closeRepository()

	presets, err := preset.NewTable(settings.Presets)
	if err != nil {
		return fmt.Errorf("load presets: %w", err)
	}

	timers := trigger.NewTimers()
	defer timers.Close()

	sched := scheduler.New(trigger.System{}, timers, buildPresenter(settings.Alerts),
		scheduler.WithAlertPeriod(settings.Alarm.AlertPeriod),
		scheduler.WithContext(ctx),
	)

	svc := NewService(ctx, sched, repository, presets, settings.Alarm.SnoozeMinutes)

	if err = armOnStart(ctx, svc, settings.Alarm, opts); err != nil {
		return err
	}

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", listenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", listenAddress, err)
	}

	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(api.LoggingInterceptor))
	api.RegisterAlarmClockServer(grpcServer, api.NewServer(svc))

	logger.InfoKV(ctx, "Alarm clock listening",
		"listen_address", listenAddress,
		"settings_backend", settings.Settings.Backend,
		"settings_path", settings.Settings.Path,
	)

	var (
		wg      sync.WaitGroup
		errs    = make(chan error, 2)
		httpSrv *http.Server
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg.Go(func() {
		if serveErr := grpcServer.Serve(lis); serveErr != nil && !errors.Is(serveErr, grpc.ErrServerStopped) {
			errs <- fmt.Errorf("serve gRPC: %w", serveErr)
			cancel()
		}
	})

	httpAddress := settings.HTTPAddress
	if opts.HTTPAddress != "" {
		httpAddress = opts.HTTPAddress
	}

	if httpAddress != "" {
		httpSrv = &http.Server{
			Addr:              httpAddress,
			Handler:           httpapi.NewRouter(svc),
			ReadHeaderTimeout: settings.Timeout,
		}

		logger.InfoKV(ctx, "HTTP control surface listening", "listen_address", httpAddress)

		wg.Go(func() {
			if serveErr := httpSrv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				errs <- fmt.Errorf("serve HTTP: %w", serveErr)
				cancel()
			}
		})
	}

	runTicker(runCtx, svc, opts.TickInterval)

	logger.Info(ctx, "Shutting down alarm clock")

	grpcServer.GracefulStop()

	if httpSrv != nil {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(ctx), settings.Timeout)
		defer cancelShutdown()

		if shutdownErr := httpSrv.Shutdown(shutdownCtx); shutdownErr != nil {
			logger.WarnKV(ctx, "HTTP shutdown failed", "error", shutdownErr)
		}
	}

	wg.Wait()
	close(errs)

	logger.Info(ctx, "Alarm clock stopped")

	return <-errs
}

// runTicker refreshes the countdown until ctx ends.
func runTicker(ctx context.Context, svc *Service, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			svc.Tick(ctx)
		}
	}
}

// armOnStart arms the alarm from the command line or the configuration.
func armOnStart(ctx context.Context, svc *Service, defaults config.Alarm, opts *Options) error {
	cmd := domain.ArmCommand{
		Time:        defaults.Time,
		RepeatDaily: defaults.RepeatDaily,
		Label:       defaults.Label,
	}

	if opts.ArmAt != "" {
		cmd = domain.ArmCommand{
			Time:        opts.ArmAt,
			RepeatDaily: opts.RepeatDaily,
			Label:       opts.Label,
		}
	}

	if cmd.Time == "" {
		return nil
	}

	if _, err := svc.Arm(ctx, localActor(), cmd); err != nil {
		return fmt.Errorf("arm on start: %w", err)
	}

	return nil
}

// localActor identifies the daemon itself as the actor of start-up commands.
func localActor() *domain.Actor {
	hostname, _ := os.Hostname()

	return &domain.Actor{Hostname: hostname, Username: "alarm-clock"}
}

// openRepository opens the configured settings store.
func openRepository(ctx context.Context, settings config.Settings) (repo.Repository, func(), error) {
	switch settings.Backend {
	case config.BackendSQLite:
		db, err := repo.OpenSQLite(ctx, settings.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open settings database: %w", err)
		}

		return db, func() {
			if err := db.Close(); err != nil {
				logger.WarnKV(ctx, "Closing settings database failed", "error", err)
			}
		}, nil
	default:
		return repo.NewFileRepository(afero.NewOsFs(), settings.Path), func() {}, nil
	}
}

// buildPresenter assembles the enabled alert channels.
func buildPresenter(alerts config.Alerts) scheduler.Presenter {
	presenters := presenter.Multi{presenter.NewLog()}

	if !alerts.NoBell {
		presenters = append(presenters, presenter.NewBell(os.Stdout))
	}

	if !alerts.NoNotifications {
		if notifier := presenter.NewNotifier(); notifier.Supported() {
			presenters = append(presenters, notifier)
		}
	}

	return presenters
}

// resolveListenAddress determines the listen address for the gRPC server.
// If override is provided, uses it directly. Otherwise extracts port from configAddr.
func resolveListenAddress(configAddr, override string) (string, error) {
	if override != "" {
		return override, nil
	}

	if configAddr == "" {
		return "", ErrNoServerAddress
	}

	host, port, err := net.SplitHostPort(configAddr)
	if err != nil {
		return "", fmt.Errorf("invalid server address format %q: %w", configAddr, err)
	}

	// Loopback addresses stay private; anything else binds on all interfaces.
	if ip := net.ParseIP(host); host == "localhost" || (ip != nil && ip.IsLoopback()) {
		return configAddr, nil
	}

	return ":" + port, nil
}
