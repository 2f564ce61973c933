package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/nguyandy/erddap-mcp-demo/internal/audit"
	"github.com/nguyandy/erddap-mcp-demo/internal/config"
	"github.com/nguyandy/erddap-mcp-demo/internal/erddap"
	"github.com/nguyandy/erddap-mcp-demo/internal/logger"
)

const (
	serverName    = "erddap-mcp"
	serverVersion = "1.0.0"

	shutdownGrace = 5 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "erddap-mcp:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flag.StringVar(&cfg.Server.Transport, "transport", cfg.Server.Transport, "transport: stdio, streamable-http or sse")
	flag.StringVar(&cfg.Server.Host, "host", cfg.Server.Host, "listen host for HTTP transports")
	flag.IntVar(&cfg.Server.Port, "port", cfg.Server.Port, "listen port for HTTP transports")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(cfg.Logging.Level)
	logCfg.FilePath = cfg.Logging.FilePath
	log := logger.New(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := newERDDAPClient(cfg.ERDDAP, log)
	defer client.Close()

	rec := openAudit(ctx, cfg.Audit, log)
	defer func() {
		if err := rec.Close(); err != nil {
			log.Warn("closing audit sinks", "error", err)
		}
	}()

	tools := newToolset(client, cfg.ERDDAP.DefaultURL, rec, log)
	mcpServer := server.NewMCPServer(serverName, serverVersion,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tools.register(mcpServer)

	if cfg.Server.Transport == config.TransportStdio {
		log.Info("starting MCP server in stdio mode", "tools", len(tools.order))
		err := server.NewStdioServer(mcpServer).Listen(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
	return serveHTTP(ctx, cfg.Server, mcpServer, tools, log)
}

func newERDDAPClient(cfg config.ERDDAPConfig, log logger.Logger) *erddap.Client {
	opts := []erddap.Option{
		erddap.WithTimeout(cfg.Timeout),
		erddap.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		erddap.WithLogger(log.With("component", "erddap")),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, erddap.WithUserAgent(cfg.UserAgent))
	}
	return erddap.NewClient(opts...)
}

// openAudit opens every configured sink. A sink that fails to open is
// logged and skipped.
func openAudit(ctx context.Context, cfg config.AuditConfig, log logger.Logger) *audit.Recorder {
	var sinks []audit.Sink
	if cfg.DuckDBPath != "" {
		if s, err := audit.OpenDuckDB(cfg.DuckDBPath); err != nil {
			log.Warn("duckdb audit log disabled", "path", cfg.DuckDBPath, "error", err)
		} else {
			sinks = append(sinks, s)
			log.Info("duckdb audit log enabled", "path", cfg.DuckDBPath)
		}
	}
	if cfg.DatabaseURL != "" {
		if s, err := audit.OpenPostgres(ctx, cfg.DatabaseURL); err != nil {
			log.Warn("postgres audit log disabled", "error", err)
		} else {
			sinks = append(sinks, s)
			log.Info("postgres audit log enabled")
		}
	}
	return audit.NewRecorder(log.With("component", "audit"), sinks...)
}

// newMux mounts the MCP transport, and optionally the REST mirror, on one mux.
// The returned function shuts the transport down.
func newMux(cfg config.ServerConfig, mcpServer *server.MCPServer, tools *toolset) (*http.ServeMux, func(context.Context) error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)

	var shutdown func(context.Context) error
	switch cfg.Transport {
	case config.TransportSSE:
		sseServer := server.NewSSEServer(mcpServer,
			server.WithBaseURL(cfg.PublicURL()),
		)
		mux.Handle("/sse", sseServer)
		mux.Handle("/message", sseServer)
		shutdown = sseServer.Shutdown
	default:
		httpServer := server.NewStreamableHTTPServer(mcpServer,
			server.WithEndpointPath("/mcp"),
		)
		mux.Handle("/mcp", httpServer)
		shutdown = httpServer.Shutdown
	}

	if cfg.EnableREST {
		rest := &RESTHandler{tools: tools}
		rest.Register(mux)
	}
	return mux, shutdown
}

func serveHTTP(ctx context.Context, cfg config.ServerConfig, mcpServer *server.MCPServer, tools *toolset, log logger.Logger) error {
	mux, shutdownTransport := newMux(cfg, mcpServer, tools)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting MCP server", "transport", cfg.Transport, "addr", srv.Addr, "rest", cfg.EnableREST)
		if cfg.Transport == config.TransportSSE {
			log.Info("  SSE endpoint: /sse, message endpoint: /message")
		} else {
			log.Info("  Streamable HTTP endpoint: /mcp")
		}
		if cfg.EnableREST {
			log.Info("  REST API: /api/..., Swagger UI: /docs/")
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := shutdownTransport(shutdownCtx); err != nil {
		log.Warn("transport shutdown", "error", err)
	}
	return srv.Shutdown(shutdownCtx)
}
