package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docvault/internal/logger"
)

const (
	// DefaultVersion is reported when no build version is supplied.
	DefaultVersion = "dev"

	shutdownTimeout = 5 * time.Second
)

const instructions = `docvault stores each user's uploaded documents as embedded chunks.
Use "search" to rank a user's chunks against a query and "ask" to answer a
question from them. Every tool takes owner_id, which may be a user ID or
email; it can be omitted when the server was started for a single user.`

// Server exposes retrieval over the Model Context Protocol.
type Server struct {
	ports        *Ports
	server       *mcp.Server
	defaultOwner string
	version      string
}

// Option configures a Server.
type Option func(*Server)

// WithDefaultOwner answers for ownerID when a call names no owner.
func WithDefaultOwner(ownerID string) Option {
	return func(s *Server) { s.defaultOwner = ownerID }
}

// WithVersion sets the version reported to clients.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// NewServer creates a server over ports. Query is required; tools and
// resources backed by a missing optional port are not registered.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports, version: DefaultVersion}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{Name: "docvault", Version: s.version},
		&mcp.ServerOptions{Instructions: instructions},
	)
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Info("MCP server on stdio (default owner %q)", s.defaultOwner)
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is
// cancelled, then drains open requests for up to shutdownTimeout.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.serveHTTP(ctx, ln)
}

func (s *Server) serveHTTP(ctx context.Context, ln net.Listener) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("MCP server shutdown: %v", err)
		}
	}()

	logger.Info("MCP server on http://%s", ln.Addr())
	err := httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		<-done
		return nil
	}
	return err
}

// owner resolves the owner a call acts for. An ID or email is looked
// up when a user service is available, so tools always receive the
// canonical user ID.
func (s *Server) owner(ctx context.Context, requested string) (string, error) {
	id := strings.TrimSpace(requested)
	if id == "" {
		id = s.defaultOwner
	}
	if id == "" {
		return "", ErrMissingOwner
	}
	if s.ports.Users == nil {
		return id, nil
	}
	user, err := s.ports.Users.Get(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w %q: %w", ErrUnknownOwner, id, err)
	}
	return user.ID, nil
}
