package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xiaot623/debate/internal/config"
	"github.com/xiaot623/debate/internal/hub"
	"github.com/xiaot623/debate/internal/logging"
	"github.com/xiaot623/debate/internal/render"
	"github.com/xiaot623/debate/internal/repository"
	"github.com/xiaot623/debate/internal/service"
	internalhttp "github.com/xiaot623/debate/internal/transport/http"
	"github.com/xiaot623/debate/internal/transport/mcp"
	"github.com/xiaot623/debate/internal/transport/rpc"
	"github.com/xiaot623/debate/policy"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the debate server",
		Long: `Run the debate server.

With --transport stdio (the default) the server speaks MCP over stdin and
stdout. With --transport http it serves the REST API, the record stream and
the JSON-RPC endpoint.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().StringP("transport", "t", "", "stdio or http (overrides TRANSPORT)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("transport") {
		cfg.Transport, _ = cmd.Flags().GetString("transport")
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// serve builds the service from cfg and runs the configured transport until
// ctx is done or, for stdio, the input stream ends.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdin io.Reader, stdout, stderr io.Writer) error {
	policyEngine, err := policy.NewEngineFromFile(ctx, cfg.PolicyFile)
	if err != nil {
		return err
	}

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithPolicy(policyEngine),
	}
	if cfg.RenderEnabled {
		opts = append(opts, service.WithSink("render", render.New(stderr, cfg.RenderColor)))
	}
	if cfg.ArchiveEnabled {
		store, err := repository.NewSQLiteStore(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer store.Close()
		opts = append(opts, service.WithArchive(store))
	}

	switch cfg.Transport {
	case config.TransportHTTP:
		return serveHTTP(ctx, cfg, logger, opts)
	default:
		svc, err := service.New(opts...)
		if err != nil {
			return err
		}
		logger.Info("Multi-Agent Debate MCP Server listening on stdio")
		return mcp.NewServer(svc, logger).Serve(ctx, stdin, stdout)
	}
}

func serveHTTP(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts []service.Option) error {
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	connectionHub := hub.NewHub(logger)
	go connectionHub.Run(hubCtx)

	svc, err := service.New(append(opts, service.WithSink("stream", connectionHub))...)
	if err != nil {
		return err
	}

	httpServer := internalhttp.NewServer(cfg, svc, connectionHub, logger)
	rpcServer, err := rpc.NewServer(svc, logger)
	if err != nil {
		return fmt.Errorf("failed to create rpc server: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := httpServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		addr := fmt.Sprintf(":%d", cfg.RPCPort)
		if err := rpcServer.Start(addr); err != nil {
			errCh <- fmt.Errorf("rpc server: %w", err)
		}
	}()

	logger.Info("debate server started", "http_port", cfg.HTTPPort, "rpc_port", cfg.RPCPort)

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	logger.Info("shutting down debate server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shutdown http server gracefully", "error", err)
	}
	if err := rpcServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shutdown rpc server gracefully", "error", err)
	}
	stopHub()

	logger.Info("debate server stopped")
	return runErr
}
