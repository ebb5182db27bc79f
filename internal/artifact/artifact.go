package artifact

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// Link kinds.
const (
	KindStatic  = "static"
	KindDynamic = "dynamic"
)

// Artifact is a built companion library.
type Artifact struct {
	Crate       string
	Path        string // library file
	Header      string // C header generated by the toolchain
	Dir         string // directory holding Path and Header
	Kind        string // KindStatic or KindDynamic
	Version     string
	BuildID     string
	Fingerprint string
	Sources     []string // workspace-relative
	Root        string   // workspace root the sources are relative to
	Cached      bool     // true when the build was skipped
}

// libraryFile returns the platform file name of the library for crate.
func libraryFile(crate, kind, goos string) string {
	if kind == KindStatic {
		return "lib" + crate + ".a"
	}
	switch goos {
	case "darwin", "ios":
		return "lib" + crate + ".dylib"
	case "windows":
		return crate + ".dll"
	default:
		return "lib" + crate + ".so"
	}
}

// headerFile returns the header name the toolchain writes next to lib.
func headerFile(lib string) string {
	return strings.TrimSuffix(lib, filepath.Ext(lib)) + ".h"
}

// LinkDirectives returns the lines a consumer build needs: the cgo LDFLAGS
// for the artifact and one rerun-if-changed line per source file.
func (a *Artifact) LinkDirectives() []string {
	lines := []string{a.CgoLDFlags()}
	if a.Kind == KindDynamic {
		lines = append(lines, fmt.Sprintf("cgo-ldflags=-Wl,-rpath,%s", a.Dir))
	}
	for _, src := range a.Sources {
		lines = append(lines, "rerun-if-changed="+path.Join(filepath.ToSlash(a.Root), src))
	}
	return lines
}

// CgoLDFlags returns the #cgo LDFLAGS directive for linking the artifact.
func (a *Artifact) CgoLDFlags() string {
	return fmt.Sprintf("cgo-ldflags=-L%s -l%s", a.Dir, a.Crate)
}

// PkgConfig returns a pkg-config file body describing the artifact.
func (a *Artifact) PkgConfig() string {
	var b strings.Builder
	fmt.Fprintf(&b, "libdir=%s\n", a.Dir)
	fmt.Fprintf(&b, "includedir=%s\n", a.Dir)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Name: %s\n", a.Crate)
	b.WriteString("Description: exact rational arithmetic over a C ABI\n")
	fmt.Fprintf(&b, "Version: %s\n", strings.TrimPrefix(a.Version, "v"))
	fmt.Fprintf(&b, "Libs: -L${libdir} -l%s\n", a.Crate)
	if a.Kind == KindStatic {
		b.WriteString("Libs.private: -lpthread\n")
	}
	b.WriteString("Cflags: -I${includedir}\n")
	return b.String()
}
