package graph

import (
	"strconv"
	"strings"

	"github.com/pkggraph/pkggraph"
)

// compareDotted compares two dotted numeric version strings (e.g.
// "10.13" vs "10.9") component-wise, treating missing trailing
// components as zero.
func compareDotted(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(as) {
			av, _ = strconv.Atoi(as[i])
		}
		if i < len(bs) {
			bv, _ = strconv.Atoi(bs[i])
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

func maxDotted(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	if compareDotted(a, b) >= 0 {
		return a
	}
	return b
}

// derivePlatforms computes a target's derived platform table: declared
// values elementwise max'd against table, and (for test targets) against
// xctestMinimums too, per spec.md §4.6 "Platform derivation". maccatalyst
// follows ios unless independently declared.
func derivePlatforms(declared map[string]string, kind pkggraph.TargetKind, table pkggraph.PlatformTable) map[string]string {
	derived := make(map[string]string, len(table))
	for name, min := range table {
		derived[name] = min
	}
	if kind == pkggraph.TargetTest {
		for name, min := range xctestMinimums {
			derived[name] = maxDotted(derived[name], min)
		}
	}
	for name, v := range declared {
		derived[name] = maxDotted(derived[name], v)
	}
	if _, declaredCatalyst := declared["maccatalyst"]; !declaredCatalyst {
		if ios, ok := derived["ios"]; ok {
			derived["maccatalyst"] = maxDotted(derived["maccatalyst"], ios)
		}
	}
	return derived
}
