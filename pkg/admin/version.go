package admin

import "fmt"

// APIVersion identifies one release of the Admin API. Quarterly releases are
// named YYYY-MM; the unstable channel tracks unreleased changes.
type APIVersion struct {
	// Name is the version identifier used in request paths, e.g. "2022-10".
	Name string

	// Stable marks released versions. Mounting a non-stable version succeeds
	// but emits a one-time advisory warning.
	Stable bool
}

// String returns the version identifier.
func (v APIVersion) String() string {
	return v.Name
}

// Released API versions, oldest first.
var (
	Version202204 = APIVersion{Name: "2022-04", Stable: true}
	Version202207 = APIVersion{Name: "2022-07", Stable: true}
	Version202210 = APIVersion{Name: "2022-10", Stable: true}
	Version202301 = APIVersion{Name: "2023-01", Stable: true}
	Version202304 = APIVersion{Name: "2023-04", Stable: true}

	// Version202307 is the current release candidate.
	Version202307 = APIVersion{Name: "2023-07", Stable: false}

	// VersionUnstable tracks unreleased API changes.
	VersionUnstable = APIVersion{Name: "unstable", Stable: false}
)

// SupportedVersions returns every mountable version, oldest first.
func SupportedVersions() []APIVersion {
	return []APIVersion{
		Version202204,
		Version202207,
		Version202210,
		Version202301,
		Version202304,
		Version202307,
		VersionUnstable,
	}
}

// LatestStable returns the newest released version.
func LatestStable() APIVersion {
	versions := SupportedVersions()

	latest := versions[0]

	for _, version := range versions {
		if version.Stable {
			latest = version
		}
	}

	return latest
}

// LookupVersion resolves a version identifier. An unknown identifier is a
// configuration error surfaced at mount time, not at first call.
func LookupVersion(name string) (APIVersion, error) {
	for _, version := range SupportedVersions() {
		if version.Name == name {
			return version, nil
		}
	}

	return APIVersion{}, &ConfigError{
		Reason: fmt.Sprintf("%s: %q", ErrUnknownVersion, name),
	}
}
