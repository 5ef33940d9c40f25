// Package ir provides the observation types produced by reading back a
// reduced graph.
//
// A reduced root is only meaningful through its weak head normal form; the
// Value types here record that form, plus on-demand read-back of children,
// as plain immutable data that can be printed, compared, hashed, and
// stored.
//
// This package contains type definitions and serialization only. It
// imports nothing internal.
//
// Key design constraints:
//   - Numbers are int64 only; floats are rejected by the canonical encoder
//   - Canonical JSON (sorted keys, NFC strings, no HTML escaping) is the
//     only encoding used for digests
//   - Digests use SHA-256 with domain separation
package ir
