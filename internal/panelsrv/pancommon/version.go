package pancommon

import (
	"github.com/Masterminds/semver/v3"
)

// versionConstraint defines the server versions this build can talk to.
var versionConstraint *semver.Constraints

func init() {
	var err error
	versionConstraint, err = semver.NewConstraint("=" + ServerVersion)
	if err != nil {
		panic(err)
	}
}

// IsVersionCompatible reports whether the given server version is compatible
// with this build. The version must be a valid semantic version string;
// invalid strings report false.
func IsVersionCompatible(version string) bool {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false
	}
	return versionConstraint.Check(v)
}
