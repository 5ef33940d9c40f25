package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for algorithm migration.
const (
	DomainResult   = "glyph/result/v1"
	DomainSnapshot = "glyph/snapshot/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest returns the content digest of an observed value. Equal
// observations always produce equal digests.
func Digest(v Value) (string, error) {
	canonical, err := MarshalValue(v)
	if err != nil {
		return "", fmt.Errorf("digest: %w", err)
	}
	return hashWithDomain(DomainResult, canonical), nil
}

// SnapshotDigest hashes arbitrary canonical data, such as a harness
// snapshot.
func SnapshotDigest(v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("snapshot digest: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}

// MustDigest is like Digest but panics on error.
// Use only in tests or when the value is known to be well formed.
func MustDigest(v Value) string {
	d, err := Digest(v)
	if err != nil {
		panic(err)
	}
	return d
}
