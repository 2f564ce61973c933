// Command web-chat serves a chat endpoint that answers questions about ERDDAP
// data with an OpenAI model calling the ERDDAP MCP server's tools.
package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/nguyandy/erddap-mcp-demo/internal/logger"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultModel     = "gpt-4.1-mini"
	defaultMCPURL    = "http://127.0.0.1:8000/mcp"
	defaultERDDAPURL = "https://erddap.maracoos.org/erddap"
	defaultMaxTurns  = 8
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newChatServer(log logger.Logger) (*chatServer, error) {
	// Without a key the server still starts; /chat reports the problem.
	var llm *openai.Client
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg := openai.DefaultConfig(apiKey)
		if base := os.Getenv("OPENAI_BASE_URL"); base != "" {
			cfg.BaseURL = base
		}
		llm = openai.NewClientWithConfig(cfg)
	} else {
		log.Warn("OPENAI_API_KEY not set")
	}

	maxTurns := defaultMaxTurns
	if v := os.Getenv("CHAT_MAX_TURNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("CHAT_MAX_TURNS must be a positive integer")
		}
		maxTurns = n
	}

	return &chatServer{
		llm:         llm,
		model:       envOr("OPENAI_MODEL", defaultModel),
		temperature: 0.2,
		mcpURL:      envOr("MCP_SERVER_URL", defaultMCPURL),
		erddapURL:   envOr("ERDDAP_DEFAULT_URL", defaultERDDAPURL),
		maxTurns:    maxTurns,
		log:         log,
		now:         time.Now,
	}, nil
}

func main() {
	_ = godotenv.Load()

	logCfg := logger.DefaultConfig()
	logCfg.Level = logger.ParseLevel(os.Getenv("LOG_LEVEL"))
	log := logger.New(logCfg)

	s, err := newChatServer(log)
	if err != nil {
		log.Error("web-chat config", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "ok")
	})

	port := envOr("PORT", "3334")
	log.Info("starting web-chat", "port", port, "mcp", s.mcpURL, "model", s.model, "erddap", s.erddapURL)
	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	if err := srv.ListenAndServe(); err != nil {
		log.Error("web-chat stopped", "error", err)
		os.Exit(1)
	}
}
