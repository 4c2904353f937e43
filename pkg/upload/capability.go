package upload

import (
	"strconv"
	"strings"
)

// Capability reports whether the environment can run the uploader. It replaces
// probing the browser at page load; callers inject whatever check fits.
type Capability func() bool

// Always is a Capability that is always available.
func Always() bool { return true }

// VersionProbe returns the installed version of the upload runtime and whether
// it is present at all.
type VersionProbe func() (string, bool)

// RequireVersion returns a Capability that is available when probe reports a
// runtime whose version is at least min.
func RequireVersion(probe VersionProbe, min string) Capability {
	return func() bool {
		if probe == nil {
			return false
		}
		version, ok := probe()
		if !ok {
			return false
		}
		return VersionAtLeast(version, min)
	}
}

// VersionAtLeast compares dotted numeric versions component by component, so
// "0.5.33.0" is newer than "0.5.4". Missing components count as zero and
// unparsable ones make the version unusable.
func VersionAtLeast(version, min string) bool {
	have, ok := versionParts(version)
	if !ok {
		return false
	}
	want, ok := versionParts(min)
	if !ok {
		return false
	}
	for len(have) < len(want) {
		have = append(have, 0)
	}
	for len(want) < len(have) {
		want = append(want, 0)
	}
	for i := range have {
		if have[i] != want[i] {
			return have[i] > want[i]
		}
	}
	return true
}

func versionParts(raw string) ([]int, bool) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "v")
	if trimmed == "" {
		return nil, false
	}
	parts := strings.Split(trimmed, ".")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
