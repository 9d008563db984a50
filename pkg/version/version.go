package version

// Set at build time with -ldflags "-X github.com/nais/azpublish/pkg/version.version=..."
var version = "unknown"

func Version() string {
	return version
}
