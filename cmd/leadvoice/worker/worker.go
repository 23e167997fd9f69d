package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"leadvoice/internal/agent"
	"leadvoice/internal/config"
	"leadvoice/internal/db"
	"leadvoice/internal/history"
	"leadvoice/internal/llm"
	"leadvoice/internal/logger"
	"leadvoice/internal/metrics"
	"leadvoice/internal/n8n"
	"leadvoice/internal/trace"
	wk "leadvoice/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var (
	addr         string
	webServerURL string
	room         string
)

var Cmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the voice worker that joins rooms and runs agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if addr != "" {
			cfg.Worker.Addr = addr
		}
		if webServerURL != "" {
			cfg.Worker.WebServerURL = webServerURL
		}
		logger.SetLevel(cfg.LogLevel)

		if cfg.LiveKit.URL == "" || cfg.LiveKit.APIKey == "" || cfg.LiveKit.APISecret == "" {
			return fmt.Errorf("LIVEKIT_URL, LIVEKIT_API_KEY and LIVEKIT_API_SECRET are required")
		}

		if cfg.Sarvam.APIKey == "" {
			slog.Warn("SARVAM_API_KEY not set, speech recognition and synthesis will be unavailable")
		}

		shutdown, err := trace.Init(ctx, "leadvoice-worker", trace.Config{
			Endpoint: cfg.Trace.Endpoint,
			URLPath:  cfg.Trace.URLPath,
			APIKey:   cfg.Trace.APIKey,
		})
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer shutdown(context.Background())

		database, err := db.Open(cfg.DB.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)

		baseURL, apiKey, model := cfg.LLM.Endpoint()
		provider := llm.NewOpenAI(baseURL, apiKey, model)

		profiles := wk.NewConfigClient(cfg.Worker.WebServerURL, agent.DefaultProfile(cfg.Defaults.Language, cfg.Defaults.Voice))

		opts := []wk.Option{
			wk.WithTranscriptStore(history.NewStore(database)),
			wk.WithMetrics(m),
		}
		if leads := n8n.NewClient(cfg.N8N.BaseURL, cfg.N8N.ConfigWebhook, cfg.N8N.LeadCaptureWebhook); leads != nil {
			opts = append(opts, wk.WithLeadSink(leads))
		}

		w := wk.New(
			wk.NewLiveKitConnector(cfg.LiveKit, cfg.Worker.AgentName),
			profiles,
			provider,
			cfg.LLM,
			opts...,
		)

		if room != "" {
			if _, err := w.Start(ctx, room, ""); err != nil {
				return fmt.Errorf("joining %s: %w", room, err)
			}
		}

		slog.Info("starting worker",
			"addr", cfg.Worker.Addr,
			"web_server", cfg.Worker.WebServerURL,
			"llm_model", model,
		)
		return w.Serve(ctx, cfg.Worker.Addr, wk.VerifiedReceiver(cfg.LiveKit.APIKey, cfg.LiveKit.APISecret))
	},
}

func init() {
	Cmd.Flags().StringVarP(&addr, "addr", "a", "", "override WORKER_ADDR")
	Cmd.Flags().StringVar(&webServerURL, "web-server-url", "", "override WEB_SERVER_URL")
	Cmd.Flags().StringVar(&room, "room", "", "join this room immediately")
}
