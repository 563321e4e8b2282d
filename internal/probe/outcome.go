// Package probe implements the three bounded-time probe primitives
// (HTTP, TCP, DNS) that a single check attempt is made of.
package probe

import (
	"time"

	"github.com/jroosing/forge/internal/config"
)

// ErrorKind is the closed taxonomy of non-success classifications (§3).
type ErrorKind string

const (
	ErrorNone            ErrorKind = ""
	ErrorTimeout         ErrorKind = "timeout"
	ErrorDNS             ErrorKind = "dns"
	ErrorTLS             ErrorKind = "tls"
	ErrorConnection      ErrorKind = "connection"
	ErrorStatusMismatch  ErrorKind = "status-mismatch"
	ErrorTCPRefused      ErrorKind = "tcp-refused"
	ErrorDNSNXDomain     ErrorKind = "dns-nxdomain"
	ErrorDNSMismatch     ErrorKind = "dns-mismatch"
	ErrorClientBuild     ErrorKind = "client-build"
	ErrorUnknown         ErrorKind = "unknown"
)

// Outcome is the structured result of one probe attempt.
type Outcome struct {
	EndpointName    string
	ResolvedAddress string
	Description     string
	Group           string
	Tags            []string

	IsUp            bool
	StatusCode      int
	ResponseTimeMs  int64
	ErrorKind       ErrorKind
	ErrorMessage    string

	AlertAfterFailures int
	AlertChannels      []string
}

// newOutcome seeds an Outcome with the endpoint's metadata, ready for a
// probe primitive to fill in the rest.
func newOutcome(ep config.EndpointConfig, resolvedAddress string) Outcome {
	return Outcome{
		EndpointName:       ep.Name,
		ResolvedAddress:    resolvedAddress,
		Description:        ep.Description,
		Group:              ep.Group,
		Tags:               ep.Tags,
		AlertAfterFailures: ep.AlertAfterFailures,
		AlertChannels:      ep.AlertChannels,
	}
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
