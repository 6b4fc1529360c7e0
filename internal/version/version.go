// In file: internal/version/version.go

// Package version centralizes the versioning for the cached parts of the gateway.
//
// Cache keys embed these version strings, so bumping a component's version
// makes every entry written by the previous logic unreachable without a flush.
// For example, switching geocoding providers means bumping Providers from
// "v1.0" to "v1.1"; coordinates cached from the old provider are then ignored.
package version

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// ComponentVersions holds the version strings for different logical parts of the application.
// Manually increment a version number here before you deploy a change to that component.
var ComponentVersions = struct {
	// Tools should be updated whenever a tool's output shape or logic changes.
	Tools string

	// Providers should be updated whenever the upstream geocoding or weather
	// provider, or the way its responses are normalized, changes.
	Providers string
}{
	Tools:     "v1.0",
	Providers: "v1.0",
}

// HashKey creates a stable, fixed-length SHA256 hash of a string.
func HashKey(input string) string {
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}

// GenerateVersionedCacheKey creates a consistent, version-aware cache key.
//
// The input is normalized (trimmed, lower-cased) before hashing so that
// "Paris" and " paris " share one entry.
//
// Example output: "geocode:a1b2c3d4...:tv1.0_pv1.0"
func GenerateVersionedCacheKey(prefix, input string) string {
	inputHash := HashKey(strings.ToLower(strings.TrimSpace(input)))

	versionString := fmt.Sprintf("tv%s_pv%s",
		ComponentVersions.Tools,
		ComponentVersions.Providers,
	)

	return fmt.Sprintf("%s:%s:%s", prefix, inputHash, versionString)
}
