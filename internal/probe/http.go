package probe

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jroosing/forge/internal/config"
	"github.com/jroosing/forge/internal/envsubst"
)

// HTTP performs one bounded-time HTTP probe attempt. logger receives
// envsubst's undefined-variable warnings for this check-time expansion.
func HTTP(ctx context.Context, ep config.EndpointConfig, logger *slog.Logger) Outcome {
	start := time.Now()

	resolvedAddr := envsubst.Expand(ep.Addr, logger)
	out := newOutcome(ep, resolvedAddr)

	timeout := time.Duration(ep.Timeout) * time.Second
	client, err := buildHTTPClient(timeout, ep.SkipTLSVerification)
	if err != nil {
		out.ErrorKind = ErrorClientBuild
		out.ErrorMessage = err.Error()
		out.ResponseTimeMs = elapsedMs(start)
		return out
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var bodyReader io.Reader
	if ep.Body != "" {
		bodyReader = bytes.NewBufferString(envsubst.Expand(ep.Body, logger))
	}

	method := ep.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(reqCtx, method, resolvedAddr, bodyReader)
	if err != nil {
		out.ErrorKind = ErrorClientBuild
		out.ErrorMessage = err.Error()
		out.ResponseTimeMs = elapsedMs(start)
		return out
	}
	for k, v := range ep.Headers {
		req.Header.Set(k, envsubst.Expand(v, logger))
	}

	resp, err := client.Do(req)
	if err != nil {
		out.ErrorKind = classifyHTTPError(err)
		out.ErrorMessage = err.Error()
		out.ResponseTimeMs = elapsedMs(start)
		return out
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	out.StatusCode = resp.StatusCode
	out.ResponseTimeMs = elapsedMs(start)

	expected := ep.ExpectedStatus
	if expected == 0 {
		expected = http.StatusOK
	}
	if resp.StatusCode == expected {
		out.IsUp = true
	} else {
		out.IsUp = false
		out.ErrorKind = ErrorStatusMismatch
		out.ErrorMessage = fmt.Sprintf("expected status %d, got %d", expected, resp.StatusCode)
	}
	return out
}

func buildHTTPClient(timeout time.Duration, skipTLSVerify bool) (*http.Client, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: skipTLSVerify}, //nolint:gosec // operator opt-in per endpoint
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// classifyHTTPError maps a client.Do error to an ErrorKind per §4.2.
func classifyHTTPError(err error) ErrorKind {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorTimeout
	}

	var urlErr *url.Error
	isConnectPhase := errors.As(err, &urlErr)

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "dns") || strings.Contains(msg, "resolve"):
		return ErrorDNS
	case strings.Contains(msg, "tls") || strings.Contains(msg, "ssl") || strings.Contains(msg, "certificate"):
		return ErrorTLS
	case isConnectPhase:
		return ErrorConnection
	default:
		return ErrorUnknown
	}
}
