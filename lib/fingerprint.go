package wallpaperlib

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Bumping this invalidates every existing cache entry.
const fingerprintVersion = "spanwall-1"

// Fingerprint identifies which monitor shows which image with which fit.
// Geometry is deliberately left out; only the canonical monitor order
// depends on it. Callers can pass assignments in any order.
func Fingerprint(as []Assignment) string {
	sorted := make([]Assignment, len(as))
	copy(sorted, as)
	sort.SliceStable(sorted, func(i, j int) bool {
		return monitorLess(sorted[i].Monitor, sorted[j].Monitor)
	})

	var sb strings.Builder
	sb.WriteString(fingerprintVersion)
	for _, a := range sorted {
		// NUL can't appear in monitor names or paths
		sb.WriteByte(0)
		sb.WriteString(a.Monitor.Name)
		sb.WriteByte(0)
		sb.WriteString(a.Path)
		sb.WriteByte(0)
		sb.WriteString(fitKey(a.Fit))
	}

	return hashPath(sb.String())
}

// zoom and fill render identically
func fitKey(f FitMode) string {
	if f.covers() {
		return string(FitFill)
	}
	return string(f)
}

func hashPath(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}
