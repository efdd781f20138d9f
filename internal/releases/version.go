package releases

import (
	"slices"
	"strconv"
	"strings"
)

// CompareVersions orders dotted numeric versions ("2.1" < "10.0").
// Non-numeric components compare as zero.
func CompareVersions(a, b string) int {
	as := strings.Split(strings.TrimSpace(a), ".")
	bs := strings.Split(strings.TrimSpace(b), ".")
	for i := 0; i < max(len(as), len(bs)); i++ {
		av, bv := component(as, i), component(bs, i)
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

func component(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	n, err := strconv.Atoi(parts[i])
	if err != nil {
		return 0
	}
	return n
}

// SortDescending orders channels newest first.
func SortDescending(channels []Channel) {
	slices.SortStableFunc(channels, func(a, b Channel) int {
		return CompareVersions(b.Version, a.Version)
	})
}

// ShortVersion drops a trailing ".0": "8.0" becomes "8", "3.1" stays.
func ShortVersion(version string) string {
	return strings.TrimSuffix(version, ".0")
}

// Major returns the leading component of a version.
func Major(version string) string {
	major, _, _ := strings.Cut(strings.TrimSpace(version), ".")
	return major
}

// DisplayName is the product name shown in tables. Channels before 5.0 were
// branded .NET Core; the supported table always uses the short .NET form.
func DisplayName(version string, legacyBranding bool) string {
	if legacyBranding {
		switch Major(version) {
		case "1", "2", "3":
			return ".NET Core " + version
		}
	}
	return ".NET " + ShortVersion(version)
}
