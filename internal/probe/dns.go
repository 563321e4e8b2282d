package probe

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jroosing/forge/internal/config"
	"github.com/jroosing/forge/internal/envsubst"
)

// DNS performs one bounded-time DNS resolution probe. logger receives
// envsubst's undefined-variable warnings for this check-time expansion.
func DNS(ctx context.Context, ep config.EndpointConfig, logger *slog.Logger) Outcome {
	start := time.Now()

	resolvedAddr := strings.TrimPrefix(envsubst.Expand(ep.Addr, logger), "dns://")
	out := newOutcome(ep, resolvedAddr)

	timeout := time.Duration(ep.Timeout) * time.Second
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	records, err := lookupHost(probeCtx, resolvedAddr)
	out.ResponseTimeMs = elapsedMs(start)
	if err != nil {
		switch {
		case isTimeout(err):
			out.ErrorKind = ErrorTimeout
			out.ErrorMessage = "DNS lookup timed out"
		case isNXDomain(err):
			out.ErrorKind = ErrorDNSNXDomain
			out.ErrorMessage = err.Error()
		default:
			out.ErrorKind = ErrorDNS
			out.ErrorMessage = err.Error()
		}
		return out
	}

	if len(records) == 0 {
		out.ErrorKind = ErrorDNS
		out.ErrorMessage = "DNS resolution returned no records"
		return out
	}

	if len(ep.ExpectedRecords) == 0 {
		out.IsUp = true
		return out
	}

	if allPresent(ep.ExpectedRecords, records) {
		out.IsUp = true
		return out
	}

	out.ErrorKind = ErrorDNSMismatch
	out.ErrorMessage = fmt.Sprintf("expected records %v, got %v", ep.ExpectedRecords, records)
	return out
}

func lookupHost(ctx context.Context, host string) ([]string, error) {
	return resolverHook(ctx, host)
}

// resolverHook exists so tests can stub DNS resolution without touching
// the network; production code always points it at the system resolver.
var resolverHook = func(ctx context.Context, host string) ([]string, error) {
	return defaultLookupHost(ctx, host)
}

func isNXDomain(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "nxdomain") || strings.Contains(msg, "no such")
}

func allPresent(expected, got []string) bool {
	set := make(map[string]struct{}, len(got))
	for _, r := range got {
		set[r] = struct{}{}
	}
	for _, e := range expected {
		if _, ok := set[e]; !ok {
			return false
		}
	}
	return true
}
