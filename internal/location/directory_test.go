package location_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weathercard/weathercard/internal/location"
)

func TestFindRegion_AllEntries(t *testing.T) {
	all := location.All()
	require.Len(t, all, 21)

	for _, r := range all {
		t.Run(r.Name, func(t *testing.T) {
			found, ok := location.FindRegion(r.Name)
			require.True(t, ok)
			assert.Equal(t, r.Name, found.Name)
			assert.NotEmpty(t, found.StationName)
			assert.NotEmpty(t, found.SunriseRegionName)
		})
	}
}

func TestFindRegion_Taipei(t *testing.T) {
	r, ok := location.FindRegion("臺北市")
	require.True(t, ok)
	assert.Equal(t, "臺北", r.StationName)
	assert.Equal(t, "臺北市", r.SunriseRegionName)
}

func TestFindRegion_NotFound(t *testing.T) {
	_, ok := location.FindRegion("台北市") // variant character is not an exact match
	assert.False(t, ok)

	_, ok = location.FindRegion("")
	assert.False(t, ok)
}

func TestDefaultRegionIsInDirectory(t *testing.T) {
	_, ok := location.FindRegion(location.DefaultRegionName)
	assert.True(t, ok)
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := location.All()
	all[0].Name = "mutated"

	assert.NotEqual(t, "mutated", location.All()[0].Name)
	assert.Equal(t, location.Names()[0], location.All()[0].Name)
}
