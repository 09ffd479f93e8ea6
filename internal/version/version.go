// Package version exposes build metadata for the service binaries.
//
// The variables are set at build time via -ldflags, e.g.
//
//	go build -ldflags "-X github.com/walletpass/passd/internal/version.version=v1.2.3"
package version

var (
	version   = "dev"
	buildDate = "unknown"
	gitCommit = "unknown"
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

// Get returns the build information compiled into the binary.
func Get() Info {
	return Info{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
	}
}
