package driver

import (
	"crypto/sha256"
	"encoding/binary"

	"reflow/internal/options"
)

// Digest identifies file content and option state in the disk cache.
type Digest [sha256.Size]byte

// IsZero reports whether the digest was never computed.
func (d Digest) IsZero() bool {
	var z Digest
	return d == z
}

// HashBytes digests raw file content.
func HashBytes(data []byte) Digest {
	return sha256.Sum256(data)
}

// combineDigest builds H(parts[0] || parts[1] || ...). Callers pass parts in
// a deterministic order.
func combineDigest(parts ...Digest) Digest {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write(p[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// optionsDigest captures every option that affects formatting output, so a
// config change invalidates cached results.
func optionsDigest(opts options.Set) Digest {
	var buf [9]byte
	buf[0] = byte(opts.SmartIndent)
	buf[1] = boolByte(opts.AutoFormatOnCloseBrace)
	buf[2] = boolByte(opts.AutoFormatOnSemicolon)
	buf[3] = boolByte(opts.UseTabs)
	buf[4] = boolByte(opts.IndentCaseLabels)
	binary.LittleEndian.PutUint32(buf[5:], uint32(opts.IndentWidth))
	return sha256.Sum256(buf[:])
}

func boolByte(v bool) byte {
	if v {
		return 1
	}
	return 0
}
