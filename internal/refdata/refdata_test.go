package refdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	set, err := Load("")
	require.NoError(t, err)
	assert.Len(t, set.StatusChoices, 3)

	c, ok := set.Classification(1)
	require.True(t, ok)
	assert.Equal(t, "Complaint", c.Name)

	_, ok = set.ReportType(99)
	assert.False(t, ok)
}

func TestLoadFileOverridesLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refdata.yaml")
	seed := `
referrers:
  - id: 10
    name: Ranger
report_types:
  - id: 7
    report_type: Kangaroo
    version: 2
`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	set, err := Load(path)
	require.NoError(t, err)
	require.Len(t, set.Referrers, 1)
	assert.Equal(t, "Ranger", set.Referrers[0].Name)
	rt, ok := set.ReportType(7)
	require.True(t, ok)
	assert.Equal(t, 2, rt.Version)
	assert.Len(t, set.Classifications, 3, "lists missing from the file keep their defaults")
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("referrers: [unclosed"))
	assert.Error(t, err)
}
