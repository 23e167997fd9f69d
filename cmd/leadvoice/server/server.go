package server

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"leadvoice/internal/agent"
	"leadvoice/internal/config"
	"leadvoice/internal/gateway"
	"leadvoice/internal/logger"
	"leadvoice/internal/metrics"
	"leadvoice/internal/n8n"
	"leadvoice/internal/resolver"
	"leadvoice/internal/token"
	"leadvoice/internal/trace"

	lksdk "github.com/livekit/server-sdk-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var port string

var Cmd = &cobra.Command{
	Use:   "server",
	Short: "Start the web server: profiles, tokens and the demo UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if port != "" {
			cfg.Server.Port = port
		}
		logger.SetLevel(cfg.LogLevel)

		shutdown, err := trace.Init(ctx, "leadvoice-server", trace.Config{
			Endpoint: cfg.Trace.Endpoint,
			URLPath:  cfg.Trace.URLPath,
			APIKey:   cfg.Trace.APIKey,
		})
		if err != nil {
			return fmt.Errorf("initializing tracing: %w", err)
		}
		defer shutdown(context.Background())

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m := metrics.New(reg)

		def := agent.DefaultProfile(cfg.Defaults.Language, cfg.Defaults.Voice)

		var source resolver.Source
		if c := n8n.NewClient(cfg.N8N.BaseURL, cfg.N8N.ConfigWebhook, cfg.N8N.LeadCaptureWebhook); c != nil {
			source = c
			slog.Info("n8n profile source enabled", "base_url", cfg.N8N.BaseURL)
		} else {
			slog.Warn("N8N_BASE_URL not set, serving the default profile only")
		}
		profiles := resolver.New(def, source, resolver.WithMetrics(m))

		issuerOpts := []token.Option{token.WithMetrics(m)}
		if cfg.LiveKit.CreateRoom && cfg.LiveKit.APIKey != "" {
			rooms := lksdk.NewRoomServiceClient(cfg.LiveKit.URL, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret)
			issuerOpts = append(issuerOpts, token.WithRoomCreator(rooms))
		}
		tokens := token.NewIssuer(cfg.LiveKit, issuerOpts...)

		srv := gateway.NewServer(profiles, tokens, m)
		slog.Info("starting web server", "addr", cfg.ServerAddr(), "livekit_url", cfg.LiveKit.URL)
		return srv.ListenAndServe(ctx, cfg.ServerAddr())
	},
}

func init() {
	Cmd.Flags().StringVarP(&port, "port", "p", "", "override WEB_PORT")
}
