package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"storyweave/internal/httpapi"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the encounter API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func runServe(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	if err := a.store.EnsureSchema(ctx); err != nil {
		return err
	}

	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	if mode := strings.ToLower(a.cfg.Log.Mode); mode == "prod" || mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	server := httpapi.NewServer(httpapi.RouterConfig{
		Service: a.svc,
		Logger:  a.log,
		Metrics: httpapi.NewMetrics(reg),
	})
	a.log.Info("http server listening", "addr", addr)
	err = server.Run(ctx, addr)
	a.log.Info("http server stopped")
	return err
}
