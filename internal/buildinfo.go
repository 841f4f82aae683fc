package internal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/jasonlovesdoggo/mctools"
)

// Build describes the running binary.
type Build struct {
	Version   string   `json:"version"`
	GoVersion string   `json:"go_version"`
	Revision  string   `json:"revision,omitempty"`
	Modified  bool     `json:"modified,omitempty"`
	Deps      []string `json:"deps,omitempty"`
}

func (b Build) String() string {
	s := fmt.Sprintf("mctools %s %s", b.Version, b.GoVersion)
	if b.Revision != "" {
		s += " " + b.Revision
		if b.Modified {
			s += "+dirty"
		}
	}
	return s
}

// ReadBuild collects the version and whatever the toolchain embedded.
func ReadBuild() Build {
	b := Build{Version: mctools.Version, GoVersion: runtime.Version()}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			b.Revision = s.Value
		case "vcs.modified":
			b.Modified = s.Value == "true"
		}
	}
	for _, dep := range bi.Deps {
		b.Deps = append(b.Deps, dep.Path+"@"+dep.Version)
	}
	return b
}

func buildInfoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ReadBuild()); err != nil {
		slog.Error("can't encode build info", "err", err)
	}
}

// MountDebug registers the build info and license pages on mux.
func MountDebug(mux *http.ServeMux) {
	mux.HandleFunc("/.mctools/debug/buildinfo", buildInfoHandler)
	mux.HandleFunc("/.mctools/licenses", licensesHandler)
}
