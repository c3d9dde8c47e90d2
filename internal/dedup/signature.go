// Package dedup decides whether uploaded image bytes duplicate previously
// processed content. Exact matching by content signature is the contract;
// perceptual near-duplicate matching is an optional, advisory layer. A
// failing duplicate check always degrades to "not a duplicate" because
// deduplication is an optimization, never a correctness requirement.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ContentSignature identifies image content by digest and length. It is
// derived solely from the raw bytes and used only for equality.
type ContentSignature struct {
	Hash      [sha256.Size]byte
	SizeBytes int64
}

// Signature computes the content signature of raw image bytes.
// Identical bytes always produce identical signatures.
func Signature(data []byte) ContentSignature {
	return ContentSignature{
		Hash:      sha256.Sum256(data),
		SizeBytes: int64(len(data)),
	}
}

// Hex returns the digest as a lowercase hex string, the form persisted
// alongside analyses.
func (s ContentSignature) Hex() string {
	return hex.EncodeToString(s.Hash[:])
}

// Equal reports whether two signatures identify the same content.
func (s ContentSignature) Equal(other ContentSignature) bool {
	return s.SizeBytes == other.SizeBytes && s.Hash == other.Hash
}

// ParseSignature reconstructs a signature from its persisted hex digest
// and byte length.
func ParseSignature(hexDigest string, sizeBytes int64) (ContentSignature, error) {
	raw, err := hex.DecodeString(hexDigest)
	if err != nil {
		return ContentSignature{}, fmt.Errorf("decode signature: %w", err)
	}
	if len(raw) != sha256.Size {
		return ContentSignature{}, fmt.Errorf("decode signature: got %d bytes, want %d", len(raw), sha256.Size)
	}

	var sig ContentSignature
	copy(sig.Hash[:], raw)
	sig.SizeBytes = sizeBytes
	return sig, nil
}
