package flist

import (
	"strings"
	"testing"
)

func TestDigests(t *testing.T) {
	t.Run("known digests", func(t *testing.T) {
		sha1Hex, md5Hex, err := Digests(strings.NewReader("abc"))
		if err != nil {
			t.Fatalf("Digests() unexpected error: %v", err)
		}
		if want := "a9993e364706816aba3e25717850c26c9cd0d89d"; sha1Hex != want {
			t.Errorf("Digests() sha1 = %s, want %s", sha1Hex, want)
		}
		if want := "900150983cd24fb0d6963f7d28e17f72"; md5Hex != want {
			t.Errorf("Digests() md5 = %s, want %s", md5Hex, want)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		sha1Hex, md5Hex, err := Digests(strings.NewReader(""))
		if err != nil {
			t.Fatalf("Digests() unexpected error: %v", err)
		}
		if want := "da39a3ee5e6b4b0d3255bfef95601890afd80709"; sha1Hex != want {
			t.Errorf("Digests() sha1 = %s, want %s", sha1Hex, want)
		}
		if want := "d41d8cd98f00b204e9800998ecf8427e"; md5Hex != want {
			t.Errorf("Digests() md5 = %s, want %s", md5Hex, want)
		}
	})

	t.Run("input larger than one buffer", func(t *testing.T) {
		big := strings.Repeat("x", hashBufferSize*2+17)
		sha1Hex, md5Hex, err := Digests(strings.NewReader(big))
		if err != nil {
			t.Fatalf("Digests() unexpected error: %v", err)
		}
		if len(sha1Hex) != 40 {
			t.Errorf("Digests() sha1 length = %d, want 40", len(sha1Hex))
		}
		if len(md5Hex) != 32 {
			t.Errorf("Digests() md5 length = %d, want 32", len(md5Hex))
		}
	})
}
