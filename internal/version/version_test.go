package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateVersionedCacheKey_Format(t *testing.T) {
	key := GenerateVersionedCacheKey("geocode", "Paris")

	parts := strings.Split(key, ":")
	if assert.Len(t, parts, 3) {
		assert.Equal(t, "geocode", parts[0])
		assert.Len(t, parts[1], 64)
		assert.Equal(t, "tv"+ComponentVersions.Tools+"_pv"+ComponentVersions.Providers, parts[2])
	}
}

func TestGenerateVersionedCacheKey_NormalizesInput(t *testing.T) {
	assert.Equal(t,
		GenerateVersionedCacheKey("geocode", "Paris"),
		GenerateVersionedCacheKey("geocode", "  paris "),
	)
	assert.NotEqual(t,
		GenerateVersionedCacheKey("geocode", "Paris"),
		GenerateVersionedCacheKey("geocode", "Lyon"),
	)
}

func TestGenerateVersionedCacheKey_ChangesWithVersion(t *testing.T) {
	before := GenerateVersionedCacheKey("geocode", "Paris")

	old := ComponentVersions.Providers
	ComponentVersions.Providers = "v9.9"
	t.Cleanup(func() { ComponentVersions.Providers = old })

	assert.NotEqual(t, before, GenerateVersionedCacheKey("geocode", "Paris"))
}

func TestHashKey_IsStable(t *testing.T) {
	assert.Equal(t, HashKey("abc"), HashKey("abc"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", HashKey("abc"))
}
