// Package rpc exposes the debate over net/rpc with the JSON-RPC codec.
package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"sync"

	"github.com/xiaot623/debate/internal/domain"
	"github.com/xiaot623/debate/internal/service"
)

// ServiceName is the name methods are registered under, e.g. "Debate.Submit".
const ServiceName = "Debate"

// Server exposes debate RPC endpoints.
type Server struct {
	listener  net.Listener
	rpcServer *rpc.Server
	logger    *slog.Logger
	done      chan struct{}
	mu        sync.Mutex
}

// NewServer creates a new debate RPC server.
func NewServer(svc *service.Service, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	rpcServer := rpc.NewServer()
	handler := &Handler{svc: svc}
	if err := rpcServer.RegisterName(ServiceName, handler); err != nil {
		return nil, err
	}

	return &Server{
		rpcServer: rpcServer,
		logger:    logger,
		done:      make(chan struct{}),
	}, nil
}

// Start begins accepting RPC connections on the given address.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				close(s.done)
				return nil
			}
			s.logger.Warn("rpc accept error", "error", err)
			continue
		}

		go s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(conn))
	}
}

// Shutdown stops accepting new RPC connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return nil
	}

	if err := ln.Close(); err != nil {
		return err
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Handler implements debate RPC methods.
type Handler struct {
	svc *service.Service
}

// ToolCallArgs names a tool and its JSON arguments.
type ToolCallArgs struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// HistoryArgs is the (empty) argument of Debate.History.
type HistoryArgs struct{}

// Submit applies a debate payload and returns the snapshot. Rejections are
// returned as RPC errors carrying the engine's message.
func (h *Handler) Submit(args map[string]any, reply *domain.Snapshot) error {
	outcome, err := h.svc.Submit(context.Background(), args)
	if err != nil {
		return err
	}
	*reply = outcome.Snapshot
	return nil
}

// CallTool invokes a registered tool. Tool failures are reported through
// reply.IsError, never as an RPC error.
func (h *Handler) CallTool(args *ToolCallArgs, reply *domain.ToolResult) error {
	if args == nil {
		return errors.New("tool call is required")
	}
	*reply = *h.svc.CallTool(context.Background(), args.Name, args.Arguments)
	return nil
}

// History returns the accepted records in append order.
func (h *Handler) History(_ *HistoryArgs, reply *domain.HistoryResponse) error {
	records := h.svc.History()
	reply.Records = records
	reply.Total = len(records)
	return nil
}
