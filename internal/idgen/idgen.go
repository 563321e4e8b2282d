// Package idgen derives the stable, non-adversarial identifier used to
// key an endpoint's persisted event history.
//
// The recipe hashes the endpoint name twice with distinct seeds (one of
// them a fixed domain-separation constant), concatenates the two 64-bit
// digests, and formats the 16-byte result as a 26-character base-32
// string. It is stable across processes and across the fleet because
// it depends only on the name; it is not collision-resistant against an
// adversary who controls endpoint names, which is fine — this is an
// operator-declared configuration, not untrusted input.
package idgen

import (
	"encoding/base32"
	"hash/fnv"
)

// domainSeparator is mixed into the second hash so the two digests are
// derived independently even when FNV's internal state would otherwise
// correlate them for short inputs.
const domainSeparator = "forge-endpoint-id-v1\x00"

var base32Encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// DeriveID returns the deterministic 26-character base-32 identifier for
// the given endpoint name. Equal names always yield equal ids.
func DeriveID(name string) string {
	a := fnv.New64a()
	_, _ = a.Write([]byte(name))
	sumA := a.Sum64()

	b := fnv.New64a()
	_, _ = b.Write([]byte(domainSeparator))
	_, _ = b.Write([]byte(name))
	sumB := b.Sum64()

	var raw [16]byte
	putUint64(raw[0:8], sumA)
	putUint64(raw[8:16], sumB)

	encoded := base32Encoding.EncodeToString(raw[:])
	// 16 bytes base32-encodes to 26 characters (ceil(16*8/5)) with no
	// padding; this is asserted by the test suite, not recomputed here.
	return encoded
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[7-i] = byte(v)
		v >>= 8
	}
}
