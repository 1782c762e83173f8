package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/google/uuid"
	goversion "github.com/hashicorp/go-version"
	"github.com/yuzolabs/pixelprobe/internal/config"
	"github.com/yuzolabs/pixelprobe/internal/logging"
	"github.com/yuzolabs/pixelprobe/internal/metrics"
	"github.com/yuzolabs/pixelprobe/internal/probe"
	"github.com/yuzolabs/pixelprobe/internal/report"
)

// minSupportedGo is advisory: older runtimes get a stderr warning, never an
// abort.
const minSupportedGo = "1.24"

func main() {
	var (
		configFile = flag.String("config", "", "path to probe configuration file")
		envPrefix  = flag.String("env-prefix", "PIXELPROBE", "environment variable prefix")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(*envPrefix, *configFile)
	cfg, err := loader.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to configure logger: %v", err)
	}
	logger = logger.With(slog.String("run_id", uuid.NewString()))

	warnOldRuntime(os.Stderr, runtime.Version())

	renderer, err := report.NewRenderer(os.Stdout, cfg.Report.Block)
	if err != nil {
		log.Fatalf("failed to compile report template: %v", err)
	}

	recorder := metrics.NewRecorder(nil)
	runner := probe.New(logger, probe.Options{
		Endpoint: cfg.Worker.Endpoint(),
		Origin:   cfg.Worker.Origin,
		Cases:    probe.DefaultCases(),
		Metrics:  recorder,
		OnResult: renderer.Render,
	})

	logger.Info("probing worker",
		slog.String("endpoint", cfg.Worker.Endpoint()),
		slog.String("origin", cfg.Worker.Origin),
	)

	results, err := runner.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled):
		// An operator interrupt is a normal way to end an advisory run; the
		// results flushed so far stand.
		logger.Info("run interrupted", slog.Int("completed", len(results)))
	default:
		logger.Error("run aborted", slog.Any("error", err))
		os.Exit(1)
	}

	logSummary(logger, recorder, len(results))
}

func logSummary(logger *slog.Logger, recorder *metrics.Recorder, completed int) {
	summary, err := recorder.Snapshot()
	if err != nil {
		logger.Error("metrics snapshot failed", slog.Any("error", err))
		return
	}
	attrs := []any{slog.Int("cases", completed)}
	for _, class := range []string{"2xx", "3xx", "4xx", "5xx", metrics.StatusClassTransport} {
		if count, ok := summary.ByClass[class]; ok {
			attrs = append(attrs, slog.Int(class, count))
		}
	}
	logger.Info("run complete", attrs...)
}

// warnOldRuntime prints an advisory when the Go runtime predates the minimum
// supported release. Unparseable versions (devel builds) skip the check.
func warnOldRuntime(w io.Writer, runtimeVersion string) {
	current, err := goversion.NewVersion(strings.TrimPrefix(runtimeVersion, "go"))
	if err != nil {
		return
	}
	minimum := goversion.Must(goversion.NewVersion(minSupportedGo))
	if current.LessThan(minimum) {
		fmt.Fprintf(w, "go %s or newer is recommended (running %s)\n", minSupportedGo, runtimeVersion)
	}
}
