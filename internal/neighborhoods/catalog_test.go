package neighborhoods

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/storm-data-reliability/internal/reliability"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 19, c.Len())
	assert.Equal(t, "Palace Hills", c.Name("1"))
	assert.Equal(t, "West Parton", c.Name("19"))
	assert.Equal(t, "Location 42", c.Name("42"))
	assert.True(t, c.Known("7"))
	assert.False(t, c.Known("42"))

	ids := c.IDs()
	require.Len(t, ids, 19)
	assert.Equal(t, "1", ids[0])
	assert.Equal(t, "2", ids[1])
	assert.Equal(t, "19", ids[18])
}

func TestIDsReturnsCopy(t *testing.T) {
	c := Default()
	ids := c.IDs()
	ids[0] = "changed"
	assert.Equal(t, "1", c.IDs()[0])
}

func TestNew_Validation(t *testing.T) {
	_, err := New([]Neighborhood{{ID: " ", Name: "Blank"}})
	require.Error(t, err)

	_, err = New([]Neighborhood{{ID: "1", Name: "A"}, {ID: "1", Name: "B"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNew_OrdersLikeEngine(t *testing.T) {
	ids := []string{"2", "north", "1", "01", "10"}
	entries := make([]Neighborhood, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, Neighborhood{ID: id})
	}
	c, err := New(entries)
	require.NoError(t, err)
	assert.Equal(t, []string{"01", "1", "2", "10", "north"}, c.IDs())

	want := append([]string(nil), ids...)
	sort.SliceStable(want, func(i, j int) bool { return reliability.NeighborhoodLess(want[i], want[j]) })
	assert.Equal(t, want, c.IDs())
}

func TestLoad(t *testing.T) {
	c, err := Load(filepath.Join("testdata", "catalog.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "north"}, c.IDs())
	assert.Equal(t, "Hilltop", c.Name("1"))
	assert.Equal(t, "North Shore", c.Name("north"))
	assert.Equal(t, "Location 3", c.Name("3"))
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read neighborhood catalog")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("neighborhoods: [::"), 0o600))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse neighborhood catalog")

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("neighborhoods: []\n"), 0o600))
	_, err = Load(empty)
	require.Error(t, err)
}

func TestLoadOrDefault(t *testing.T) {
	c, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, 19, c.Len())
}
