package flist

import "testing"

func TestTrimStart(t *testing.T) {
	tests := []struct {
		name    string
		scanDir string
		path    string
		want    string
	}{
		{"nested scan root", "/data/scan", "/data/scan/sub", "scan/sub"},
		{"scan root directly under the filesystem root", "/data", "/data/sub", "data/sub"},
		{"depth-1 root itself", "/data", "/data", "data"},
		{"deeper nesting", "/a/b/c", "/a/b/c/d/e", "c/d/e"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := trimPath(tt.path, trimStart(tt.scanDir)); got != tt.want {
				t.Errorf("trimPath(%q, trimStart(%q)) = %q, want %q",
					tt.path, tt.scanDir, got, tt.want)
			}
		})
	}
}

func TestTrimPath(t *testing.T) {
	t.Run("zero offset is the identity", func(t *testing.T) {
		if got := trimPath("/data/scan", 0); got != "/data/scan" {
			t.Errorf("trimPath() = %q, want /data/scan", got)
		}
	})

	t.Run("offset past the end leaves the path alone", func(t *testing.T) {
		if got := trimPath("/a", 10); got != "/a" {
			t.Errorf("trimPath() = %q, want /a", got)
		}
	})
}
