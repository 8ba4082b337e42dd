package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/term"

	"snapsolver/pkg/config"
	"snapsolver/pkg/llm/middleware/metrics"
	"snapsolver/pkg/logx"
	"snapsolver/pkg/persistence"
	"snapsolver/pkg/problem"
	"snapsolver/pkg/processing"
	"snapsolver/pkg/screenshots"
)

// Version information - set by goreleaser via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		dataDir      = flag.String("datadir", defaultDataDir(), "Data directory for settings, keys, and screenshots")
		metricsAddr  = flag.String("metrics-addr", "", "Prometheus metrics listen address, e.g. :9090 (overrides settings)")
		debug        = flag.Bool("debug", false, "Enable debug logging")
		debugDomains = flag.String("debug-domains", "", "Comma-separated components for debug logging")
		showVersion  = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("snapsolver %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	logx.SetDebug(*debug)
	if *debugDomains != "" {
		logx.SetDebugDomains(strings.Split(*debugDomains, ","))
	}

	os.Exit(run(*dataDir, *metricsAddr))
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".snapsolver"
	}
	return filepath.Join(home, ".snapsolver")
}

// run contains the main application logic and returns an exit code so defers
// execute before os.Exit.
func run(dataDir, metricsAddr string) int {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %v\n", err)
		return 1
	}

	if err := config.Load(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
		return 1
	}

	if err := loadAPIKeys(dataDir); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load API keys: %v\n", err)
		return 1
	}
	config.LoadAPIKeysFromEnv()

	if err := persistence.Initialize(filepath.Join(dataDir, "snapsolver.db")); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		return 1
	}
	defer func() {
		if err := persistence.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}()

	settings, err := config.Get()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read settings: %v\n", err)
		return 1
	}
	if metricsAddr == "" {
		metricsAddr = settings.MetricsAddr
	}
	if metricsAddr != "" {
		go serveMetrics(metricsAddr)
	}

	store := screenshots.NewDirStore(
		filepath.Join(dataDir, "screenshots"),
		filepath.Join(dataDir, "extra-screenshots"),
	)

	orchestrator := processing.NewOrchestrator(store, &consoleNotifier{},
		processing.WithRecorder(metrics.NewPrometheusRecorder()),
		processing.WithConversationStore(persistence.Conversations()),
	)

	config.LogInfo("snapsolver %s ready (provider=%s)", version, settings.APIProvider)

	return interact(orchestrator)
}

// loadAPIKeys decrypts the key store when present, prompting for the
// password without echo.
func loadAPIKeys(dataDir string) error {
	if !config.SecretsFileExists(dataDir) {
		return nil
	}

	fmt.Fprint(os.Stderr, "Key store password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}

	if err := config.LoadAPIKeys(dataDir, string(password)); err != nil {
		return fmt.Errorf("failed to decrypt key store: %w", err)
	}
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	config.LogInfo("metrics listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "Metrics server failed: %v\n", err)
	}
}

// interact runs the command loop until EOF, "quit", or a signal.
func interact(orchestrator *processing.Orchestrator) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		orchestrator.CancelAll()
	}()

	fmt.Println("Commands: solve [message], debug, cancel, quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		command, rest, _ := strings.Cut(line, " ")

		switch command {
		case "solve":
			var messages []problem.Message
			if rest != "" {
				messages = append(messages, problem.Message{Kind: problem.MessageKindText, Content: rest})
			}
			go func() {
				if err := orchestrator.ProcessMain(ctx, "", messages); err != nil {
					config.LogInfo("solve: %v", err)
				}
			}()
		case "debug":
			go func() {
				if err := orchestrator.ProcessExtra(ctx, ""); err != nil {
					config.LogInfo("debug: %v", err)
				}
			}()
		case "cancel":
			orchestrator.CancelAll()
		case "quit", "exit":
			orchestrator.CancelAll()
			return 0
		default:
			fmt.Printf("Unknown command: %s\n", command)
		}

		if ctx.Err() != nil {
			return 0
		}
	}
	return 0
}
