package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rxtech-lab/argo-scorecard/pkg/errors"
)

// CheckConfigCompatibility reports whether an engine can read a configuration document.
//
// Rules:
//   - "main" on either side skips the check
//   - major versions must match
//   - the configuration minor must not be newer than the engine minor
//   - patch versions are ignored
func CheckConfigCompatibility(engineVersion, configVersion string) error {
	engineVersion = strings.TrimPrefix(engineVersion, "v")
	configVersion = strings.TrimPrefix(configVersion, "v")

	if engineVersion == "main" || configVersion == "main" {
		return nil
	}

	engine, err := semver.NewVersion(engineVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid engine version %q", engineVersion)
	}

	config, err := semver.NewVersion(configVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidVersion, err, "invalid config version %q", configVersion)
	}

	if engine.Major() != config.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "major version mismatch: engine is %d.x.x but config requires %d.x.x",
			engine.Major(), config.Major())
	}

	if config.Minor() > engine.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch, "config version %s is newer than engine %d.%d.x",
			config.String(), engine.Major(), engine.Minor())
	}

	return nil
}
