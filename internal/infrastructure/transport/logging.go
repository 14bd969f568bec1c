package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"shopping-agent/internal/application/port/output"
)

// LoggingTransport logs outbound requests and responses at debug level.
// Headers are never logged; they carry credentials.
type LoggingTransport struct {
	Base   http.RoundTripper
	Logger output.LoggerPort
}

func NewLoggingClient(logger output.LoggerPort, timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &LoggingTransport{
			Base:   http.DefaultTransport,
			Logger: logger,
		},
	}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if t.Logger != nil {
		var bodyBytes []byte
		if req.Body != nil {
			bodyBytes, _ = io.ReadAll(req.Body)
			req.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		var requestData map[string]interface{}
		if len(bodyBytes) > 0 {
			_ = json.Unmarshal(bodyBytes, &requestData)
		}

		t.Logger.Debug("HTTP Request",
			"method", req.Method,
			"url", req.URL.String(),
			"body", requestData,
		)
	}

	start := time.Now()
	resp, err := base.RoundTrip(req)

	if t.Logger != nil {
		if err != nil {
			t.Logger.Debug("HTTP Request failed", "url", req.URL.String(), "error", err)
		} else {
			t.Logger.Debug("HTTP Response",
				"status", resp.Status,
				"statusCode", resp.StatusCode,
				"durationMs", time.Since(start).Milliseconds(),
			)
		}
	}

	return resp, err
}
