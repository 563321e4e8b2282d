package probe

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/jroosing/forge/internal/config"
	"github.com/jroosing/forge/internal/envsubst"
)

// TCP performs one bounded-time TCP reachability probe. logger receives
// envsubst's undefined-variable warnings for this check-time expansion.
func TCP(ctx context.Context, ep config.EndpointConfig, logger *slog.Logger) Outcome {
	start := time.Now()

	resolvedAddr := strings.TrimPrefix(envsubst.Expand(ep.Addr, logger), "tcp://")
	out := newOutcome(ep, resolvedAddr)

	timeout := time.Duration(ep.Timeout) * time.Second
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	host, port, err := net.SplitHostPort(resolvedAddr)
	if err != nil {
		out.ErrorKind = ErrorDNS
		out.ErrorMessage = fmt.Sprintf("resolver error: %v", err)
		out.ResponseTimeMs = elapsedMs(start)
		return out
	}

	ips, err := net.DefaultResolver.LookupHost(probeCtx, host)
	if err != nil {
		out.ErrorKind = ErrorDNS
		if isTimeout(err) {
			out.ErrorKind = ErrorTimeout
			out.ErrorMessage = "connection timed out"
		} else {
			out.ErrorMessage = fmt.Sprintf("resolver error: %v", err)
		}
		out.ResponseTimeMs = elapsedMs(start)
		return out
	}
	if len(ips) == 0 {
		out.ErrorKind = ErrorDNS
		out.ErrorMessage = "no addresses returned"
		out.ResponseTimeMs = elapsedMs(start)
		return out
	}

	target := net.JoinHostPort(ips[0], port)
	var d net.Dialer
	conn, err := d.DialContext(probeCtx, "tcp", target)
	if err != nil {
		out.ResponseTimeMs = elapsedMs(start)
		switch {
		case isTimeout(err):
			out.ErrorKind = ErrorTimeout
			out.ErrorMessage = "connection timed out"
		case strings.Contains(strings.ToLower(err.Error()), "refused"):
			out.ErrorKind = ErrorTCPRefused
			out.ErrorMessage = err.Error()
		default:
			out.ErrorKind = ErrorConnection
			out.ErrorMessage = err.Error()
		}
		return out
	}
	defer conn.Close()

	// Zero-byte write + shutdown confirms the peer accepted the connection.
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if _, err := tcpConn.Write(nil); err != nil {
			out.IsUp = false
			out.ErrorKind = ErrorConnection
			out.ErrorMessage = err.Error()
			out.ResponseTimeMs = elapsedMs(start)
			return out
		}
		_ = tcpConn.CloseWrite()
	}

	out.IsUp = true
	out.ResponseTimeMs = elapsedMs(start)
	return out
}

func isTimeout(err error) bool {
	netErr, ok := err.(net.Error)
	return ok && netErr.Timeout()
}
