package boundary

import (
	"strconv"
	"strings"
)

// Link-time configuration. Overridden with -ldflags -X by the orchestrator.
var (
	version  = "0.1.0"
	linkMode = LinkStatic
)

// Link modes accepted in linkMode.
const (
	LinkStatic  = "static"
	LinkDynamic = "dynamic"
)

// Version returns the semantic version string the artifact was built with.
func Version() string {
	return version
}

// LinkMode returns the link mode the artifact was built with.
func LinkMode() string {
	return linkMode
}

// versionParts splits v into major, minor and patch.
// Missing or unparsable components become 0; pre-release and build
// suffixes on the patch component are ignored.
func versionParts(v string) (major, minor, patch int32) {
	parts := strings.SplitN(strings.TrimPrefix(v, "v"), ".", 3)
	get := func(i int) int32 {
		if i >= len(parts) {
			return 0
		}
		s := parts[i]
		if j := strings.IndexAny(s, "-+"); j >= 0 {
			s = s[:j]
		}
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return 0
		}
		return int32(n)
	}
	return get(0), get(1), get(2)
}
