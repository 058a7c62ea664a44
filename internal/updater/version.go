package updater

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// CompareVersions compares two version strings using semver.
// Returns -1 if current < latest, 0 if equal, 1 if current > latest.
// Handles "v" prefix tolerance (strips leading "v" before parsing).
func CompareVersions(current, latest string) (int, error) {
	cv, err := parseSemver(current)
	if err != nil {
		return 0, fmt.Errorf("parsing current version %q: %w", current, err)
	}
	lv, err := parseSemver(latest)
	if err != nil {
		return 0, fmt.Errorf("parsing latest version %q: %w", latest, err)
	}
	return cv.Compare(lv), nil
}

// IsUpdateAvailable returns true if latest is newer than current.
func IsUpdateAvailable(current, latest string) (bool, error) {
	cmp, err := CompareVersions(current, latest)
	if err != nil {
		return false, err
	}
	return cmp == -1, nil
}

// IsValid reports whether version is a strict MAJOR.MINOR.PATCH semver,
// with optional pre-release and build metadata.
func IsValid(version string) bool {
	_, err := semver.StrictNewVersion(version)
	return err == nil
}

// IsPrerelease reports whether version carries a pre-release suffix.
func IsPrerelease(version string) bool {
	v, err := parseSemver(version)
	if err != nil {
		return false
	}
	return v.Prerelease() != ""
}

// newer returns whichever of a and b is the greater valid version. An
// invalid candidate never wins over a valid one; if neither parses, a is
// returned.
func newer(a, b string) string {
	av, aerr := parseSemver(a)
	bv, berr := parseSemver(b)
	switch {
	case berr != nil:
		return a
	case aerr != nil:
		return b
	case bv.GreaterThan(av):
		return b
	default:
		return a
	}
}

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	version = strings.TrimPrefix(version, "v")
	return semver.NewVersion(version)
}
