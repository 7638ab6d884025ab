package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/oncovoice/internal/dashboard"
)

// Terminal view of live results, polling the API.
func main() {
	api := flag.String("api", envOr("ONCOVOICE_API_URL", "http://localhost:8080"), "API base URL")
	session := flag.Int("session", 0, "breakout session to show (0 = all)")
	teams := flag.String("teams", "", "comma separated team IDs that trigger fast polling (default: every team shown)")
	interval := flag.Duration("interval", dashboard.DefaultInterval, "refresh interval")
	fastInterval := flag.Duration("fast-interval", dashboard.DefaultFastInterval, "refresh interval while a watched team is processing")
	preview := flag.Int("preview", dashboard.DefaultPreviewLength, "summary preview length in characters")
	noColor := flag.Bool("no-color", false, "disable ANSI colors")
	once := flag.Bool("once", false, "render a single frame and exit")
	flag.Parse()

	watch, err := parseTeams(*teams)
	if err != nil {
		log.Fatalf("Invalid -teams: %v", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	poller := dashboard.NewPoller(dashboard.NewClient(*api, nil), os.Stdout, dashboard.PollerConfig{
		Interval:     *interval,
		FastInterval: *fastInterval,
		Watch:        watch,
		ClearScreen:  !*once,
		Render: dashboard.RenderOptions{
			SessionID:     *session,
			PreviewLength: *preview,
			Color:         !*noColor && os.Getenv("NO_COLOR") == "",
		},
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if _, err := poller.Refresh(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Fatal("❌ Dashboard stopped", zap.Error(err))
	}
}

func parseTeams(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%q is not a team ID", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
