package config

import (
	"reflect"
	"sort"
)

// Equal reports whether e and other are structurally equal for the
// purposes of reconciliation's "changed" partition (§4.6). Absent and
// empty slices/maps compare equal; slice equality is element-wise and
// order-independent, matching the Design Notes' "Equality of
// descriptors" guidance.
func (e EndpointConfig) Equal(other EndpointConfig) bool {
	return reflect.DeepEqual(normalize(e), normalize(other))
}

// normalize returns a copy of e with nil slices/maps replaced by empty
// ones (sorted, for slices) so that absence and emptiness — and
// differently-ordered-but-identical lists — compare equal.
func normalize(e EndpointConfig) EndpointConfig {
	e.Name = "" // identity is compared separately by the caller (the map key)
	e.Tags = sortedCopy(e.Tags)
	e.AlertChannels = sortedCopy(e.AlertChannels)
	e.ExpectedRecords = sortedCopy(e.ExpectedRecords)
	if e.Headers == nil {
		e.Headers = map[string]string{}
	}
	return e
}

func sortedCopy(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}
