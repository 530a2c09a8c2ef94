// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build and the rule
// table compiled into it
type BuildInfo struct {
	Service       string `json:"service"`
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	Date          string `json:"date"`
	PolicyVersion string `json:"policy_version,omitempty"`
}

// Info returns the build information for service. The version, commit, and
// date variables are intended to be set at build time using -ldflags.
func Info(service string) BuildInfo {
	// Set via -ldflags "-X 'liferec/internal/core/version.version=v0.0.1'
	// -X 'liferec/internal/core/version.commit=abcd' -X 'liferec/internal/core/version.date=2025-09-02'"
	if service == "" {
		service = "liferec"
	}
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// WithPolicy returns a copy of b carrying the active policy version
func (b BuildInfo) WithPolicy(v string) BuildInfo {
	b.PolicyVersion = v
	return b
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
