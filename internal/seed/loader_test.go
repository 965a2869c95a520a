package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSeed = `
journals:
  - name: Journal of Clinical Oncology
    aliases: [JCO]
    baseAuthority: 0.70
    taOverrides:
      oncology: 0.85
    specialties: [oncology]
    guidelineBodies: [ASCO, NCCN]
    peerReviewed: true
  - name: Nature
    baseAuthority: 0.85
    peerReviewed: true
    generalCoverage: true
`

func TestParse(t *testing.T) {
	records, err := Parse([]byte(sampleSeed))
	require.NoError(t, err)
	require.Len(t, records, 2)

	jco := records[0]
	assert.Equal(t, "Journal of Clinical Oncology", jco.DisplayName)
	assert.Equal(t, []string{"JCO"}, jco.Aliases)
	assert.Equal(t, 0.70, jco.BaseAuthority)
	assert.Equal(t, 0.85, jco.TAOverrides["oncology"])
	assert.Equal(t, []string{"ASCO", "NCCN"}, jco.GuidelineBodies)
	assert.True(t, jco.PeerReviewed)
	assert.False(t, jco.GeneralCoverage)

	nature := records[1]
	assert.True(t, nature.GeneralCoverage)
	assert.Empty(t, nature.TAOverrides)
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"no journals", "journals: []"},
		{"missing name", "journals:\n  - baseAuthority: 0.5"},
		{"malformed yaml", "journals: ["},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

func TestBuildTableSurfacesRangeViolations(t *testing.T) {
	records, err := Parse([]byte(`
journals:
  - name: Broken
    baseAuthority: 1.4
`))
	require.NoError(t, err)

	_, err = BuildTable(records)
	assert.Error(t, err)
}

func TestBuildTableResolvesAliases(t *testing.T) {
	records, err := Parse([]byte(sampleSeed))
	require.NoError(t, err)

	table, err := BuildTable(records)
	require.NoError(t, err)

	res := table.Resolve("JCO", "oncology")
	assert.True(t, res.Found)
	assert.Equal(t, 0.85, res.Authority)
}
