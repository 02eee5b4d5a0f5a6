package journal

import "github.com/vcaputo/jio/internal/hash"

// ContentHash computes the hash a Data or Field object's stored Hash
// field is checked against, selecting the algorithm per spec §8
// "Verify hashed objects": SipHash-2-4 keyed by the file's FileID when
// IncompatibleKeyedHash is set, Jenkins lookup3 64-bit otherwise.
func ContentHash(h Header, payload []byte) uint64 {
	if h.IncompatibleFlags&IncompatibleKeyedHash != 0 {
		return hash.SipHash24(payload, h.FileID)
	}
	return hash.Jenkins64(payload)
}
