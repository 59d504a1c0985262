package suite

import "io/fs"

// VersionGroup describes one previously shipped variant of the daemon suite:
// the marker paths whose presence identifies it, and the files, services,
// and unit files its cleanup touches.
type VersionGroup struct {
	Name string
	// Markers are probed in order; their positions in the concatenated
	// probe list fix their fingerprint bit positions. The probe order is
	// frozen for the lifetime of a release.
	Markers []string
	// Files are backed up and then deleted during cleanup.
	Files []string
	// Services are stopped during cleanup.
	Services []string
	// Units are unit-definition files removed during cleanup.
	Units []string
}

// ManifestEntry describes one remote artifact of an installable variant.
type ManifestEntry struct {
	// Source is the path appended to the configured artifact base URL.
	Source string
	Dest   string
	Mode   fs.FileMode
	// SHA256 optionally carries the expected hex digest. Entries without
	// a digest are copied without verification.
	SHA256 string
}

// Variant is one of the installable target suites.
type Variant struct {
	Key         string
	Name        string
	Description string
	Dirs        []string
	Manifest    []ManifestEntry
	// Units are the systemd units enabled and started after the manifest
	// lands, in order.
	Units []string
}

// Suite bundles the version groups to clean up and the variants on offer.
// It is constructed once at startup and passed by reference; nothing in it
// mutates during a run.
type Suite struct {
	Groups   []VersionGroup
	Variants []Variant
}

// MarkerPaths returns every marker in probe order: groups in declaration
// order, each group's markers in declaration order.
func (s *Suite) MarkerPaths() []string {
	var paths []string
	for _, group := range s.Groups {
		paths = append(paths, group.Markers...)
	}
	return paths
}

// VariantByKey resolves an installable variant by its key.
func (s *Suite) VariantByKey(key string) (Variant, bool) {
	for _, variant := range s.Variants {
		if variant.Key == key {
			return variant, true
		}
	}
	return Variant{}, false
}
