package version

import (
	"strings"
	"testing"
)

func TestVersionString(t *testing.T) {
	v := New("skindiff", 1, 2, 3)
	v.BuildID = "abc123"
	want := "1.2.3 (Build id: abc123)\n"
	if got := v.VersionString(); got != want {
		t.Fatalf("VersionString() = %q, want %q", got, want)
	}
}

func TestBannerContainsFields(t *testing.T) {
	v := New("skindiff", 0, 9, 0)
	v.FullName = "Skin Diffusion Simulator"
	v.CopyrightNote = "Example Author"
	v.BuildID = "dev"

	banner := v.Banner()
	for _, want := range []string{"skindiff", "Skin Diffusion Simulator", "Example Author", "0.9.0", "dev"} {
		if !strings.Contains(banner, want) {
			t.Fatalf("Banner() = %q, missing %q", banner, want)
		}
	}
}
