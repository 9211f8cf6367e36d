package api

import (
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestNewServer(t *testing.T) {
	server := NewServer(&stubOracle{}, nil, zerolog.New(zerolog.NewTestWriter(t)), 8080)

	require.NotNil(t, server.server)
	assert.Equal(t, ":8080", server.server.Addr)
	assert.NotNil(t, server.server.Handler)
}

func TestServerLifecycle(t *testing.T) {
	port := freePort(t)
	server := NewServer(&stubOracle{}, nil, zerolog.New(zerolog.NewTestWriter(t)), port)

	require.NoError(t, server.Start())

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, server.Stop())

	_, err = client.Get(fmt.Sprintf("http://127.0.0.1:%d/health", port))
	assert.Error(t, err)
}

func TestServerStartPortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	server := NewServer(&stubOracle{}, nil, zerolog.Nop(), ln.Addr().(*net.TCPAddr).Port)
	err = server.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to bind to address")
}

func TestStopWithoutStart(t *testing.T) {
	server := &Server{}
	assert.NoError(t, server.Stop())
}
