// Command lander flies a powered descent. It reads the terrain profile and
// per-tick telemetry from stdin, writes one rotation/power command per tick
// to stdout, and records the flight through the configured backends.
//
// With -sim the external physics source is replaced by the built-in
// simulator and the whole flight runs in-process.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"github.com/DwoaC/lander/internal/command"
	"github.com/DwoaC/lander/internal/config"
	"github.com/DwoaC/lander/internal/database"
	"github.com/DwoaC/lander/internal/flightlog"
	"github.com/DwoaC/lander/internal/flightlog/gormstore"
	"github.com/DwoaC/lander/internal/flightlog/wsstream"
	"github.com/DwoaC/lander/internal/influx"
	"github.com/DwoaC/lander/internal/logging"
	intOtel "github.com/DwoaC/lander/internal/otel"
	"github.com/DwoaC/lander/internal/session"
	"github.com/DwoaC/lander/internal/sim"
	"github.com/DwoaC/lander/internal/telemetry"
	"github.com/DwoaC/lander/internal/terrain"
)

var version = "dev"

func main() {
	var (
		configDir   = flag.String("config", ".", "directory holding lander.cfg.json")
		simMode     = flag.Bool("sim", false, "fly against the built-in physics simulator")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("lander", version)
		return
	}

	if err := run(*configDir, *simMode); err != nil {
		fmt.Fprintln(os.Stderr, "lander:", err)
		os.Exit(1)
	}
}

func run(configDir string, simMode bool) error {
	if err := config.Load(configDir); err != nil {
		return err
	}

	sessionStart := time.Now()
	logsDir := config.GetString("logsDir")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}
	logFile, err := os.Create(logging.LogFilePath(logsDir, sessionStart))
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer logFile.Close()

	otelProvider, err := setupOtel(logsDir, sessionStart)
	if err != nil {
		return fmt.Errorf("setting up otel: %w", err)
	}

	slogMgr := logging.NewSlogManager()
	var logProvider *sdklog.LoggerProvider
	if otelProvider.Enabled() {
		logProvider = otelProvider.LoggerProvider()
	}
	slogMgr.Setup(logFile, config.GetString("logLevel"), logProvider)
	logger := slogMgr.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Terrain and telemetry share one stdin scanner; a second scanner would
	// drop lines the first one buffered.
	stdin := bufio.NewScanner(os.Stdin)

	// Read the terrain profile and locate the landing zone before anything
	// touches the tick loop; without a zone there is no flight.
	profile, zone, world, err := setupWorld(simMode, stdin, logger)
	if err != nil {
		return err
	}
	logger.Info("landing zone selected", "zone", zone.String())

	recorder, cleanup, err := setupRecorder(slogMgr)
	if err != nil {
		return err
	}
	defer cleanup()

	var influxMgr *influx.Manager
	if config.GetBool("influx.enabled") {
		backupPath := filepath.Join(logsDir, "influx_backup.log.gz")
		influxMgr = influx.NewManager(logging.NewZerolog(config.GetString("logLevel")), backupPath)
		if err := influxMgr.Connect(); err != nil {
			logger.Warn("influx unavailable, flight metrics disabled", "error", err)
			influxMgr = nil
		} else {
			defer influxMgr.Close()
		}
	}

	metricsOn := config.GetBool("metrics.enabled")
	if metricsOn {
		serveMetrics(config.GetString("metrics.listen"), logger)
	}

	src, sink := endpoints(simMode, stdin, world)

	// The loop logger carries the live tick and phase on every record. The
	// loop variable is captured before the loop exists; the provider guards
	// against the gap.
	var loop *session.Loop
	loopLogger := slog.New(logging.NewContextHandler(logger.Handler(), func() []slog.Attr {
		if loop == nil {
			return nil
		}
		return loop.Attrs()
	}))

	loop, err = session.New(session.Dependencies{
		Source:   src,
		Sink:     sink,
		Profile:  profile,
		Zone:     zone,
		Recorder: recorder,
		Influx:   influxMgr,
		Metrics:  metricsOn,
		Logger:   loopLogger,
	})
	if err != nil {
		return err
	}

	summary, runErr := loop.Run(ctx)
	if world != nil {
		logger.Info("simulated flight finished",
			"status", world.Status().String(),
			"ticks", summary.Ticks,
			"fuel", summary.FinalFuel,
		)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := slogMgr.Flush(flushCtx); err != nil {
		logger.Warn("flushing logs failed", "error", err)
	}
	if err := otelProvider.Shutdown(flushCtx); err != nil {
		logger.Warn("otel shutdown failed", "error", err)
	}

	return runErr
}

func setupOtel(logsDir string, sessionStart time.Time) (*intOtel.Provider, error) {
	enabled := config.GetBool("otel.enabled")
	cfg := intOtel.Config{
		Enabled:      enabled,
		ServiceName:  "lander",
		BatchTimeout: 5 * time.Second,
		Endpoint:     config.GetString("otel.endpoint"),
		Insecure:     config.GetBool("otel.insecure"),
	}
	if enabled {
		otelFile, err := os.Create(filepath.Join(
			logsDir,
			fmt.Sprintf("lander.otel.%s.log", sessionStart.UTC().Format("20060102T150405Z")),
		))
		if err != nil {
			return nil, err
		}
		cfg.LogWriter = otelFile
	}
	return intOtel.New(cfg)
}

// setupWorld reads the terrain profile and finds the landing zone. In sim
// mode it also builds the physics world, spawning the craft high over the
// middle of the zone.
func setupWorld(simMode bool, stdin *bufio.Scanner, logger *slog.Logger) (terrain.Profile, terrain.LandingZone, *sim.World, error) {
	var (
		profile terrain.Profile
		err     error
	)
	if simMode {
		profile = demoProfile()
	} else {
		profile, err = terrain.ScanProfile(stdin)
		if err != nil {
			return nil, terrain.LandingZone{}, nil, fmt.Errorf("parsing terrain: %w", err)
		}
	}

	zone, err := terrain.FindLandingZone(profile)
	if err != nil {
		return nil, terrain.LandingZone{}, nil, err
	}

	var world *sim.World
	if simMode {
		world = sim.New(sim.Config{
			Profile: profile,
			Zone:    zone,
			Gravity: config.GetFloat("sim.gravity"),
			X:       float64(zone.Left+zone.Right) / 2,
			Y:       2700,
			Fuel:    2000,
		})
		logger.Info("simulator ready", "gravity", config.GetFloat("sim.gravity"))
	}
	return profile, zone, world, nil
}

// endpoints picks the telemetry source and command sink for the run.
func endpoints(simMode bool, stdin *bufio.Scanner, world *sim.World) (session.Source, session.Sink) {
	if simMode {
		ep := sim.NewEndpoint(world, config.GetInt("sim.maxTicks"))
		return ep, ep
	}
	return telemetry.NewSourceFromScanner(stdin), command.NewSink(os.Stdout)
}

// setupRecorder builds the configured flight recorder backend and wraps it
// in the batching writer. The cleanup closes the backend and, for the gorm
// backend, the database connection behind it.
func setupRecorder(slogMgr *logging.SlogManager) (*flightlog.Writer, func(), error) {
	cfg := config.Flightlog()
	logger := slogMgr.Logger()

	var (
		backend flightlog.Backend
		cleanup = func() {}
		err     error
	)

	switch strings.ToLower(cfg.Type) {
	case "gorm":
		mgr := database.NewManager(logging.NewZerolog(config.GetString("logLevel")))
		if err := mgr.Connect(); err != nil {
			return nil, nil, fmt.Errorf("connecting flight database: %w", err)
		}
		backend = gormstore.New(gormstore.Dependencies{DB: mgr.DB, LogManager: slogMgr})
		cleanup = func() {
			if mgr.SqlDB != nil {
				_ = mgr.SqlDB.Close()
			}
		}
	case "websocket":
		ws := config.Websocket()
		backend = wsstream.New(wsstream.Config{URL: ws.URL, Secret: ws.Secret}, slogMgr)
	default:
		backend, err = flightlog.NewBackend(cfg)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := backend.Init(); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("initializing %s flight recorder: %w", cfg.Type, err)
	}
	logger.Info("flight recorder ready", "backend", cfg.Type)

	closeAll := func() {
		if err := backend.Close(); err != nil {
			logger.Warn("closing flight recorder failed", "error", err)
		}
		cleanup()
	}
	return flightlog.NewWriter(backend, cfg.FlushTicks), closeAll, nil
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		logger.Info("metrics endpoint listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics endpoint failed", "error", err)
		}
	}()
}

// demoProfile is the terrain used for -sim runs: a valley with one wide
// flat floor.
func demoProfile() terrain.Profile {
	return terrain.Profile{
		{X: 0, Y: 1800},
		{X: 1200, Y: 900},
		{X: 2000, Y: 100},
		{X: 3500, Y: 100},
		{X: 5000, Y: 800},
		{X: 6999, Y: 1500},
	}
}
