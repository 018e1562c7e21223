// Package mcp serves the debate tool over newline-delimited JSON-RPC 2.0 on
// a byte stream, normally the process's stdin and stdout.
package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/xiaot623/debate/internal/domain"
	"github.com/xiaot623/debate/internal/service"
)

var nullID = json.RawMessage("null")

// Server answers MCP requests one line at a time.
type Server struct {
	svc    *service.Service
	logger *slog.Logger

	mu sync.Mutex // serializes writes
}

// NewServer creates an MCP server backed by svc.
func NewServer(svc *service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{svc: svc, logger: logger}
}

// Serve reads requests from r and writes responses to w until r is
// exhausted or ctx is done. Requests are handled in arrival order.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if resp := s.HandleMessage(ctx, line); resp != nil {
				if wErr := s.write(w, resp); wErr != nil {
					return fmt.Errorf("write response: %w", wErr)
				}
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}
	}
}

// HandleMessage processes one raw JSON-RPC message. It returns nil for
// notifications.
func (s *Server) HandleMessage(ctx context.Context, data []byte) *Response {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		if json.Valid(data) {
			return errorResponse(nullID, CodeInvalidRequest, "Invalid Request")
		}
		return errorResponse(nullID, CodeParseError, "Parse error")
	}
	if req.JSONRPC != JSONRPCVersion || req.Method == "" {
		if req.IsNotification() {
			return nil
		}
		return errorResponse(req.ID, CodeInvalidRequest, "Invalid Request")
	}

	result, rpcErr := s.dispatch(ctx, &req)
	if req.IsNotification() {
		return nil
	}
	if rpcErr != nil {
		return &Response{JSONRPC: JSONRPCVersion, ID: req.ID, Error: rpcErr}
	}
	return &Response{JSONRPC: JSONRPCVersion, ID: req.ID, Result: result}
}

func (s *Server) dispatch(ctx context.Context, req *Request) (any, *Error) {
	switch req.Method {
	case MethodInitialize:
		var params InitializeParams
		if len(req.Params) > 0 {
			// Unknown shapes fall back to the default revision.
			_ = json.Unmarshal(req.Params, &params)
		}
		version := params.ProtocolVersion
		if version == "" {
			version = ProtocolVersion
		}
		return InitializeResult{
			ProtocolVersion: version,
			ServerInfo:      ServerInfo{Name: domain.ServerName, Version: domain.ServerVersion},
		}, nil

	case MethodInitialized:
		return nil, nil

	case MethodPing:
		return struct{}{}, nil

	case MethodToolsList:
		return ListToolsResult{Tools: s.svc.ListTools()}, nil

	case MethodToolsCall:
		var params CallToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
			return nil, &Error{Code: CodeInvalidParams, Message: "Invalid params: tool name is required"}
		}
		result := s.svc.CallTool(ctx, params.Name, params.Arguments)
		if result.IsError {
			s.logger.Debug("tool call failed", "tool_name", params.Name, "result", result.Content[0].Text)
		}
		return result, nil

	default:
		return nil, &Error{Code: CodeMethodNotFound, Message: "Method not found: " + req.Method}
	}
}

func (s *Server) write(w io.Writer, resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = w.Write(data)
	return err
}

func errorResponse(id json.RawMessage, code int, msg string) *Response {
	if len(id) == 0 {
		id = nullID
	}
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &Error{Code: code, Message: msg},
	}
}
