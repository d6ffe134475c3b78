package media

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()

	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, data, 0o644))
}

func writePNG(t *testing.T, root, rel string, w, h int) {
	t.Helper()

	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))

	f, err := os.Create(p)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestRootFor(t *testing.T) {
	doc := filepath.Join("hw", "OrganDefinitions", "Organ.Organ_Hauptwerk_xml")
	assert.Equal(t, "hw", RootFor(doc))
}

func TestPath_CaseInsensitive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "OrganInstallationPackages/000123/Pipes/Principal/036-C.wav", []byte("RIFF"))

	r := New(root, true)

	got, ok := r.Path(123, `pipes\PRINCIPAL\036-c.WAV`)
	require.True(t, ok)
	assert.Equal(t, "OrganInstallationPackages/000123/Pipes/Principal/036-C.wav", got)

	got, ok = r.Path(123, `Pipes\Principal\037-C#.wav`)
	assert.False(t, ok)
	assert.Equal(t, "OrganInstallationPackages/000123/Pipes/Principal/037-C#.wav", got, "declared path is kept")

	_, ok = r.Path(7, "anything.wav")
	assert.False(t, ok, "package folder missing")
}

func TestPath_NoCheck(t *testing.T) {
	r := New(t.TempDir(), false)

	got, ok := r.Path(5, `\Images\Stop.bmp`)
	assert.True(t, ok)
	assert.Equal(t, "OrganInstallationPackages/000005/Images/Stop.bmp", got)
	assert.False(t, r.Checking())

	_, _, ok = r.ImageSize(got)
	assert.False(t, ok)
}

func TestImageSize(t *testing.T) {
	root := t.TempDir()
	writePNG(t, root, "OrganInstallationPackages/000001/Images/Knob.png", 40, 24)
	writeFile(t, root, "OrganInstallationPackages/000001/Images/Broken.png", []byte("not an image"))

	r := New(root, true)

	rel, ok := r.Path(1, `images\knob.PNG`)
	require.True(t, ok)

	w, h, ok := r.ImageSize(rel)
	require.True(t, ok)
	assert.Equal(t, 40, w)
	assert.Equal(t, 24, h)

	_, _, ok = r.ImageSize("OrganInstallationPackages/000001/Images/Broken.png")
	assert.False(t, ok)

	_, _, ok = r.ImageSize("")
	assert.False(t, ok)
}
