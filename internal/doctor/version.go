package doctor

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// FrameworkPackage is the composer package whose version gates support.
const FrameworkPackage = "laravel/framework"

// MinFrameworkMajor is the first framework release with
// bootstrap/providers.php.
const MinFrameworkMajor = 11

var stabilityFlag = regexp.MustCompile(`@[a-zA-Z]+`)

// parseSemver strips a leading "v" and parses the version string.
func parseSemver(version string) (*semver.Version, error) {
	return semver.NewVersion(strings.TrimPrefix(strings.TrimSpace(version), "v"))
}

// parseConstraint accepts composer constraint syntax: single "|" as an
// alternative and stability flags such as "@dev".
func parseConstraint(c string) (*semver.Constraints, error) {
	c = stabilityFlag.ReplaceAllString(c, "")
	if !strings.Contains(c, "||") {
		c = strings.ReplaceAll(c, "|", "||")
	}
	return semver.NewConstraint(strings.TrimSpace(c))
}

// probeMinors are the minor releases tried per major, so that both
// "^11.31" and a narrow "~11.0" find a matching version.
var probeMinors = []uint64{0, 1, 5, 10, 20, 30, 40, 50, 100, 999}

// ConstraintSupport reports whether constraint admits a supported
// framework major and whether it also admits an older, unsupported one.
func ConstraintSupport(constraint string) (supported, allowsOlder bool, err error) {
	c, err := parseConstraint(constraint)
	if err != nil {
		return false, false, fmt.Errorf("parsing constraint %q: %w", constraint, err)
	}
	admits := func(from, to uint64) bool {
		for major := from; major < to; major++ {
			for _, minor := range probeMinors {
				if c.Check(semver.New(major, minor, 0, "", "")) {
					return true
				}
			}
		}
		return false
	}
	supported = admits(MinFrameworkMajor, MinFrameworkMajor+5)
	allowsOlder = admits(MinFrameworkMajor-3, MinFrameworkMajor)
	return supported, allowsOlder, nil
}

// lockFile is the part of composer.lock doctor reads.
type lockFile struct {
	Packages []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"packages"`
}

// InstalledVersion returns the locked version of pkg from composer.lock,
// or "" when the lock file or the package is absent.
func InstalledVersion(lockPath, pkg string) (string, error) {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	var lock lockFile
	if err := json.Unmarshal(data, &lock); err != nil {
		return "", fmt.Errorf("parsing %s: %w", lockPath, err)
	}
	for _, p := range lock.Packages {
		if p.Name == pkg {
			return p.Version, nil
		}
	}
	return "", nil
}

// VersionSupported reports whether an installed version string is at least
// MinFrameworkMajor.
func VersionSupported(version string) (bool, error) {
	v, err := parseSemver(version)
	if err != nil {
		return false, fmt.Errorf("parsing version %q: %w", version, err)
	}
	return v.Major() >= MinFrameworkMajor, nil
}
