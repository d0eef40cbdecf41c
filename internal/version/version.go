package version

// Version is the scorecard engine version, set at build time:
// -ldflags "-X github.com/rxtech-lab/argo-scorecard/internal/version.Version=1.2.3"
// "main" marks a development build.
var Version = "v1.0.0"

// ConfigVersion is the configuration format written by this build.
const ConfigVersion = "1.0.0"

// GetVersion returns the engine version.
func GetVersion() string {
	return Version
}
