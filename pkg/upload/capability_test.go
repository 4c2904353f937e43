package upload_test

import (
	"testing"

	"github.com/goliatone/go-attachedimages/pkg/upload"
)

func TestVersionAtLeast(t *testing.T) {
	cases := []struct {
		version string
		min     string
		want    bool
	}{
		{"0.5.21", "0.5.21", true},
		{"0.5.33.0", "0.5.21", true},
		{"0.5.4", "0.5.21", false},
		{"0.6", "0.5.21", true},
		{"v1.0.0", "0.5.21", true},
		{"0.5", "0.5.0.0", true},
		{"", "0.5.21", false},
		{"beta", "0.5.21", false},
		{"0.5.21", "", false},
	}
	for _, tc := range cases {
		if got := upload.VersionAtLeast(tc.version, tc.min); got != tc.want {
			t.Fatalf("VersionAtLeast(%q, %q) = %v, want %v", tc.version, tc.min, got, tc.want)
		}
	}
}

func TestRequireVersion(t *testing.T) {
	missing := upload.RequireVersion(func() (string, bool) { return "", false }, "0.5.21")
	if missing() {
		t.Fatalf("missing runtime should not be available")
	}
	old := upload.RequireVersion(func() (string, bool) { return "0.5.4.2", true }, "0.5.21")
	if old() {
		t.Fatalf("old runtime should not be available")
	}
	current := upload.RequireVersion(func() (string, bool) { return "0.5.33.0", true }, "0.5.21")
	if !current() {
		t.Fatalf("current runtime should be available")
	}
	if upload.RequireVersion(nil, "0.1")() {
		t.Fatalf("nil probe should not be available")
	}
}
