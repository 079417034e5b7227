package pdf

import (
	"crypto/sha1" //nolint:gosec // any conforming 160-bit hash suffices for a file identifier
	"hash"
)

// Fingerprint is a rolling document-fingerprinting hash. Every raw input
// byte is fed into it (before control-sequence filtering), and its digest
// becomes the second element of the trailer's /ID array. SHA-1 has no
// cryptographic role here: it exists only to produce a file identifier that
// is stable for identical input and vanishingly unlikely to collide for
// different input.
type Fingerprint struct {
	h hash.Hash
}

// NewFingerprint creates a fresh rolling hash.
func NewFingerprint() *Fingerprint {
	return &Fingerprint{h: sha1.New()} //nolint:gosec
}

// Write feeds raw bytes into the fingerprint. It never fails.
func (f *Fingerprint) Write(p []byte) {
	f.h.Write(p)
}

// Sum returns the current 20-byte digest without resetting the hash.
func (f *Fingerprint) Sum() []byte {
	return f.h.Sum(nil)
}

// HexID returns the digest as a PDF hex string, suitable for the /ID array.
func (f *Fingerprint) HexID() HexString {
	return HexString(f.Sum())
}
