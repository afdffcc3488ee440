package mcp

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

func TestNewServer(t *testing.T) {
	t.Run("nil query service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingQueryService)
	})

	t.Run("options apply", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}}, WithDefaultOwner("u1"), WithVersion("1.2.3"))
		require.NoError(t, err)
		assert.Equal(t, "u1", server.defaultOwner)
		assert.Equal(t, "1.2.3", server.version)
	})

	t.Run("empty version keeps default", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}}, WithVersion(""))
		require.NoError(t, err)
		assert.Equal(t, DefaultVersion, server.version)
	})
}

func TestPorts_Validate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingQueryService)
	assert.NoError(t, (&Ports{Query: &mockQueryService{}}).Validate())
	assert.NoError(t, (&Ports{
		Query: &mockQueryService{},
		Stats: &mockStatsService{},
		Users: &mockUserService{},
	}).Validate())
}

func TestServer_owner(t *testing.T) {
	ctx := context.Background()
	users := &mockUserService{users: map[string]*domain.User{
		"u1":              {ID: "u1", Email: "ada@example.com"},
		"ada@example.com": {ID: "u1", Email: "ada@example.com"},
	}}

	t.Run("explicit owner without user service", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)
		id, err := server.owner(ctx, " u9 ")
		require.NoError(t, err)
		assert.Equal(t, "u9", id)
	})

	t.Run("falls back to default owner", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}}, WithDefaultOwner("u1"))
		require.NoError(t, err)
		id, err := server.owner(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, "u1", id)
	})

	t.Run("email resolves to ID", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Users: users})
		require.NoError(t, err)
		id, err := server.owner(ctx, "ADA@example.com")
		require.NoError(t, err)
		assert.Equal(t, "u1", id)
	})

	t.Run("unknown owner", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Users: users})
		require.NoError(t, err)
		_, err = server.owner(ctx, "ghost")
		assert.ErrorIs(t, err, ErrUnknownOwner)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing owner", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)
		_, err = server.owner(ctx, "  ")
		assert.ErrorIs(t, err, ErrMissingOwner)
	})
}

func TestServer_serveHTTPStopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Query: &mockQueryService{}})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- server.serveHTTP(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		resp.Body.Close()
		return true
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunHTTPBadAddress(t *testing.T) {
	server, err := NewServer(&Ports{Query: &mockQueryService{}})
	require.NoError(t, err)

	err = server.RunHTTP(context.Background(), "not-an-address")
	assert.Error(t, err)
}
