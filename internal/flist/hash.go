package flist

import (
	"crypto/md5"
	"crypto/sha1"
	"encoding/hex"
	"io"
)

// hashBufferSize bounds memory during hashing; one read feeds both
// digest accumulators, so each file is read exactly once.
const hashBufferSize = 64 * 1024

// Digests computes the SHA1 and MD5 checksums of r in a single pass,
// returning them as lowercase hex strings.
func Digests(r io.Reader) (sha1Hex, md5Hex string, err error) {
	s := sha1.New()
	m := md5.New()

	buf := make([]byte, hashBufferSize)
	if _, err := io.CopyBuffer(io.MultiWriter(s, m), r, buf); err != nil {
		return "", "", err
	}

	return hex.EncodeToString(s.Sum(nil)), hex.EncodeToString(m.Sum(nil)), nil
}
