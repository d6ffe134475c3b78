package dictionary

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, d, again, "default table is cached")

	assert.Equal(t, "StopID", d.IDAttribute("Stop"))
	assert.Empty(t, d.IDAttribute("StopRank"))
	assert.Empty(t, d.IDAttribute("_General"))
	assert.Equal(t, "PipeID", d.IDAttribute("Pipe_SoundEngine01"))

	_, ok := d.Lookup("Pipe_SoundEngine01_Layer")
	assert.True(t, ok)

	_, ok = d.Lookup("NoSuchType")
	assert.False(t, ok)
}

func TestExpand(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "KeyGen_NumberOfKeys", d.Expand("Keyboard", "e"))
	assert.Equal(t, "ControllingSwitchID", d.Expand("Stop", "d"))
	assert.Equal(t, "Name", d.Expand("Stop", "Name"), "full names pass through")
	assert.Equal(t, "zz", d.Expand("Stop", "zz"), "unknown tags pass through")
	assert.Equal(t, "a", d.Expand("NoSuchType", "a"))
}

func TestTypeNames(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	names := d.TypeNames()
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "SwitchLinkage")
	assert.Contains(t, names, "_General")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{
			name: "valid",
			data: "types:\n  Stop:\n    id: StopID\n    tags:\n      a: StopID\n      bb: Name\n",
		},
		{name: "no types", data: "types: {}\n", wantErr: true},
		{name: "not yaml", data: "types: [\n", wantErr: true},
		{
			name:    "long tag",
			data:    "types:\n  Stop:\n    tags:\n      abc: Name\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse([]byte(tt.data))
			if tt.wantErr {
				require.ErrorIs(t, err, ErrDictionary)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Name", d.Expand("Stop", "bb"))
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, ErrDictionary)

	path := filepath.Join(dir, "dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types:\n  Rank:\n    id: RankID\n"), 0o644))

	d, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "RankID", d.IDAttribute("Rank"))
}

func TestMarshalRoundTrip(t *testing.T) {
	d, err := Default()
	require.NoError(t, err)

	data, err := d.Marshal()
	require.NoError(t, err)

	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, d.Types, back.Types)
}
