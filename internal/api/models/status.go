package models

// EndpointStatus is one entry of the /api/v1/status sorted snapshot.
type EndpointStatus struct {
	Name            string   `json:"name"`
	ResolvedAddress string   `json:"resolved_address"`
	Description     string   `json:"description,omitempty"`
	Group           string   `json:"group,omitempty"`
	Tags            []string `json:"tags,omitempty"`

	IsUp           bool   `json:"is_up"`
	StatusCode     int    `json:"status_code,omitempty"`
	ResponseTimeMs int64  `json:"response_time_ms"`
	ErrorKind      string `json:"error_kind,omitempty"`
	ErrorMessage   string `json:"error_message,omitempty"`
}

// BucketsResponse is the /api/v1/buckets payload: per-endpoint sequences
// of 30 bucket statuses, oldest first.
type BucketsResponse struct {
	Range   string              `json:"range"`
	Buckets map[string][]string `json:"buckets"`
}
