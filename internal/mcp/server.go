// Package mcp is a Model Context Protocol server over stdio that exposes the
// trip REST API as tools.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Server struct {
	apiURL   string
	username string
	password string
	version  string
	http     *http.Client
	log      *zap.Logger
}

func NewServer(apiURL, username, password, version string, log *zap.Logger) *Server {
	return &Server{
		apiURL:   strings.TrimRight(apiURL, "/"),
		username: username,
		password: password,
		version:  version,
		http: &http.Client{
			Timeout:   90 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log.Named("mcp"),
	}
}

// Serve reads one JSON-RPC message per line from r and writes responses to w
// until r is exhausted or ctx is done.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("parse request", zap.Error(err))
			if err := enc.Encode(Response{JSONRPC: "2.0", Error: &RPCError{Code: codeParseError, Message: "Parse error"}}); err != nil {
				return err
			}
			continue
		}

		resp, ok := s.handle(ctx, req)
		if !ok {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("write response: %w", err)
		}
	}
	return scanner.Err()
}

// handle returns false for notifications, which get no response.
func (s *Server) handle(ctx context.Context, req Request) (Response, bool) {
	if req.ID == nil {
		s.log.Debug("notification", zap.String("method", req.Method))
		return Response{}, false
	}

	resp := Response{JSONRPC: "2.0", ID: req.ID}
	switch req.Method {
	case "initialize":
		resp.Result = initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    map[string]interface{}{"tools": map[string]interface{}{}},
			ServerInfo:      serverInfo{Name: "tripbot-mcp", Version: s.version},
		}
	case "ping":
		resp.Result = map[string]interface{}{}
	case "tools/list":
		resp.Result = toolsListResult{Tools: tools}
	case "tools/call":
		var params toolCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &RPCError{Code: codeInvalidParams, Message: "Invalid params"}
			return resp, true
		}
		text, isError := s.callTool(ctx, params.Name, params.Arguments)
		s.log.Info("tool call", zap.String("tool", params.Name), zap.Bool("error", isError))
		resp.Result = ToolCallResult{Content: []ContentBlock{{Type: "text", Text: text}}, IsError: isError}
	default:
		resp.Error = &RPCError{Code: codeMethodNotFound, Message: "Method not found"}
	}
	return resp, true
}

// api performs a REST call and renders the envelope data as indented JSON.
func (s *Server) api(ctx context.Context, method, path string, body interface{}) (string, bool) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Sprintf("Error encoding request: %v", err), true
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.apiURL+path, reqBody)
	if err != nil {
		return fmt.Sprintf("Error creating request: %v", err), true
	}
	req.SetBasicAuth(s.username, s.password)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Sprintf("Error making request: %v", err), true
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Sprintf("Error reading response: %v", err), true
	}

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return string(respBody), resp.StatusCode >= 400
	}
	if !envelope.Success {
		return "API Error: " + envelope.Error, true
	}
	if len(envelope.Data) == 0 {
		return "ok", false
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, envelope.Data, "", "  "); err != nil {
		return string(envelope.Data), false
	}
	return pretty.String(), false
}
