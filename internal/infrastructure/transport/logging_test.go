package transport

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shopping-agent/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingTransport_PreservesBody(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		received = string(data)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	client := NewLoggingClient(logger.NewFromCore(core), 0)

	resp, err := client.Post(srv.URL, "application/json", strings.NewReader(`{"Keywords":"LED"}`))
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, `{"Keywords":"LED"}`, received)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "HTTP Request", logs.All()[0].Message)
	assert.Equal(t, map[string]interface{}{"Keywords": "LED"}, logs.All()[0].ContextMap()["body"])
	assert.Equal(t, int64(http.StatusAccepted), logs.All()[1].ContextMap()["statusCode"])
}

func TestLoggingTransport_NilLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &LoggingTransport{}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
