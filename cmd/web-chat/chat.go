package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	mcpclient "github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nguyandy/erddap-mcp-demo/internal/logger"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are a helpful assistant that explores ERDDAP datasets for the user. Prefer the configured ERDDAP URL unless the user asks for another. Summarize findings clearly, cite dataset IDs, and link to ERDDAP resources when appropriate. When users ask about data (like "get temperature data"), call get_dataset_variable_data to retrieve it, then provide a natural language summary (e.g., date range, min/max values, trends). Mention that a CSV download is available.`

// chatServer proxies a conversation between the browser, the LLM and the
// ERDDAP MCP server.
type chatServer struct {
	llm         *openai.Client
	model       string
	temperature float32
	mcpURL      string
	erddapURL   string // default ERDDAP endpoint named in the system prompt
	maxTurns    int
	log         logger.Logger
	now         func() time.Time
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages  []chatMessage `json:"messages"`
	ERDDAPURL string        `json:"erddap_url"`
}

// ssePayload is one event sent to the browser.
type ssePayload struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	Tool  string `json:"tool,omitempty"`
	Error string `json:"error,omitempty"`
}

func sendSSE(w http.ResponseWriter, p ssePayload) {
	data, _ := json.Marshal(p)
	fmt.Fprintf(w, "data: %s\n\n", data)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *chatServer) systemMessage(erddapURL string) openai.ChatCompletionMessage {
	if erddapURL == "" {
		erddapURL = s.erddapURL
	}
	return openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleSystem,
		Content: fmt.Sprintf("%s\nCurrent datetime: %s\nDefault ERDDAP endpoint: %s. Use the tools when data is required. "+
			"Pass this endpoint as erddap_url unless the user provides a different ERDDAP.",
			systemPrompt, s.now().UTC().Format(time.RFC3339), erddapURL),
	}
}

func mcpToolsToOpenAI(tools []mcp.Tool) []openai.Tool {
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		schema, _ := json.Marshal(t.InputSchema)
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  json.RawMessage(schema),
			},
		})
	}
	return out
}

func connectMCP(ctx context.Context, url string) (*mcpclient.Client, error) {
	mc, err := mcpclient.NewStreamableHttpClient(url)
	if err != nil {
		return nil, err
	}
	if err := mc.Start(ctx); err != nil {
		mc.Close()
		return nil, err
	}
	if _, err := mc.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: "erddap-web-chat", Version: "1.0.0"},
		},
	}); err != nil {
		mc.Close()
		return nil, err
	}
	return mc, nil
}

// callTool runs one tool call and returns the text handed back to the model.
// Failures are reported to the model rather than aborting the conversation.
func callTool(ctx context.Context, mc *mcpclient.Client, tc openai.ToolCall) string {
	var args map[string]any
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return fmt.Sprintf("tool error: invalid arguments: %v", err)
		}
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = tc.Function.Name
	req.Params.Arguments = args

	res, err := mc.CallTool(ctx, req)
	if err != nil {
		return fmt.Sprintf("tool error: %v", err)
	}
	var text strings.Builder
	for _, c := range res.Content {
		if txt, ok := mcp.AsTextContent(c); ok {
			text.WriteString(txt.Text)
		}
	}
	if res.IsError {
		return "tool error: " + text.String()
	}
	return text.String()
}

func (s *chatServer) handleChat(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.llm == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"OpenAI API key not configured"}`)
		return
	}

	// X-Accel-Buffering: no keeps nginx from buffering the stream
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	ctx := r.Context()

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		sendSSE(w, ssePayload{Type: "error", Error: "invalid request: messages required"})
		return
	}

	mc, err := connectMCP(ctx, s.mcpURL)
	if err != nil {
		s.log.Error("mcp connect failed", "url", s.mcpURL, "error", err)
		sendSSE(w, ssePayload{Type: "error", Error: fmt.Sprintf("MCP connect: %v", err)})
		return
	}
	defer mc.Close()

	listed, err := mc.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		sendSSE(w, ssePayload{Type: "error", Error: fmt.Sprintf("list tools: %v", err)})
		return
	}
	tools := mcpToolsToOpenAI(listed.Tools)

	messages := []openai.ChatCompletionMessage{s.systemMessage(req.ERDDAPURL)}
	for _, m := range req.Messages {
		if m.Role != openai.ChatMessageRoleUser && m.Role != openai.ChatMessageRoleAssistant {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	for turn := 0; ; turn++ {
		if turn == s.maxTurns {
			sendSSE(w, ssePayload{Type: "error", Error: fmt.Sprintf("stopped after %d tool rounds", s.maxTurns)})
			return
		}

		resp, err := s.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       s.model,
			Messages:    messages,
			Tools:       tools,
			ToolChoice:  "auto",
			Temperature: s.temperature,
		})
		if err != nil {
			s.log.Error("llm request failed", "model", s.model, "error", err)
			sendSSE(w, ssePayload{Type: "error", Error: err.Error()})
			return
		}
		if len(resp.Choices) == 0 {
			sendSSE(w, ssePayload{Type: "error", Error: "no choices in response"})
			return
		}

		msg := resp.Choices[0].Message
		messages = append(messages, msg)
		if msg.Content != "" {
			sendSSE(w, ssePayload{Type: "text", Text: msg.Content})
		}
		if len(msg.ToolCalls) == 0 {
			break
		}

		for _, tc := range msg.ToolCalls {
			sendSSE(w, ssePayload{Type: "tool", Tool: tc.Function.Name})
			start := time.Now()
			result := callTool(ctx, mc, tc)
			s.log.Info("tool call", "tool", tc.Function.Name, "duration_ms", time.Since(start).Milliseconds())
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: tc.ID,
			})
		}
	}

	sendSSE(w, ssePayload{Type: "done"})
}
