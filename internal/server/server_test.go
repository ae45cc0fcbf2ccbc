package server_test

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/mexc-data/hotwatch/internal/server"
)

func pingHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})
}

func newTestServer(t *testing.T, h2c bool) (*server.HttpServer, <-chan error) {
	t.Helper()

	params := server.HttpServerParams{
		Config: server.HttpConfig{
			Host: "127.0.0.1",
			Port: 0,
			H2c:  h2c,
		},
		Handlers: []*server.HttpHandler{
			server.AsHttpHandler("/ping", pingHandler()).Handler,
		},
		Logger: zaptest.NewLogger(t),
	}

	srv := server.NewHttpServer(params)
	require.NoError(t, srv.Listen(context.Background()))

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve() }()

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_ = srv.Shutdown(ctx)
	})

	return srv, serveErr
}

func TestHttpServer_ServesHandlerGroup(t *testing.T) {
	srv, _ := newTestServer(t, false)

	res, err := http.Get(fmt.Sprintf("http://%s/ping", srv.Addr()))
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "pong", string(body))
}

func TestHttpServer_UnknownRouteIs404(t *testing.T) {
	srv, _ := newTestServer(t, false)

	res, err := http.Get(fmt.Sprintf("http://%s/nope", srv.Addr()))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHttpServer_H2cStillServesHttp1(t *testing.T) {
	srv, _ := newTestServer(t, true)

	res, err := http.Get(fmt.Sprintf("http://%s/ping", srv.Addr()))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestHttpServer_ShutdownStopsServe(t *testing.T) {
	srv, serveErr := newTestServer(t, false)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	select {
	case err := <-serveErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("serve did not return after shutdown")
	}
}

func TestHttpServer_ListenOnTakenPortFails(t *testing.T) {
	srv, _ := newTestServer(t, false)

	taken, ok := srv.Addr().(*net.TCPAddr)
	require.True(t, ok)

	other := server.NewHttpServer(server.HttpServerParams{
		Config: server.HttpConfig{Host: "127.0.0.1", Port: taken.Port},
		Logger: zaptest.NewLogger(t),
	})

	assert.Error(t, other.Listen(context.Background()))
}
