// Package job glues the pipeline stages together: read, evaluate, route,
// transform, load, write artifacts, record and notify.
package job

import (
	"fmt"
	"path"
	"strings"
)

// Locations names the input object and the three output prefixes of a run.
type Locations struct {
	Bucket           string
	InputKey         string
	CuratedPrefix    string
	QuarantinePrefix string
	OutcomesPrefix   string
}

// Validate enforces that the output prefixes are pairwise distinct and
// distinct from the input location. Runs abort before any write otherwise.
func (l Locations) Validate() error {
	if l.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if l.InputKey == "" {
		return fmt.Errorf("input key is required")
	}

	prefixes := map[string]string{
		"curated":    normalizePrefix(l.CuratedPrefix),
		"quarantine": normalizePrefix(l.QuarantinePrefix),
		"outcomes":   normalizePrefix(l.OutcomesPrefix),
	}
	for name, p := range prefixes {
		if p == "" {
			return fmt.Errorf("%s prefix is required", name)
		}
	}

	seen := map[string]string{}
	for name, p := range prefixes {
		if other, dup := seen[p]; dup {
			return fmt.Errorf("%s and %s prefixes are both %q", other, name, p)
		}
		seen[p] = name
	}

	inputDir := normalizePrefix(path.Dir(l.InputKey))
	for name, p := range prefixes {
		if p == inputDir || strings.HasPrefix(inputDir+"/", p+"/") {
			return fmt.Errorf("%s prefix %q overlaps the input location %q", name, p, l.InputKey)
		}
	}
	return nil
}

func normalizePrefix(p string) string {
	return strings.Trim(path.Clean("/"+strings.TrimSpace(p)), "/")
}
