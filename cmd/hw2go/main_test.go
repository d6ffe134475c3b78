package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hw2go/internal/diagnostic"
	"hw2go/internal/loader/loadertest"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()

	return out.String(), errOut.String(), err
}

func source(t *testing.T) (root, path string) {
	t.Helper()

	b := loadertest.New().
		Add("_General", "Identification_Name", "Chapel", "Identification_InstallationPackageID", "1").
		Add("InstallationPackage", "InstallationPackageID", "1").
		Add("Division", "DivisionID", "1", "Name", "Manual").
		Add("Keyboard", "KeyboardID", "1", "Name", "Manual",
			"KeyGen_NumberOfKeys", "1", "KeyGen_MIDINoteNumberOfFirstKey", "60").
		Add("KeyAction", "SourceKeyboardID", "1", "DestDivisionID", "1").
		Add("Stop", "StopID", "1", "Name", "Flute", "DivisionID", "1").
		Add("Rank", "RankID", "1", "Name", "Flute").
		Add("StopRank", "StopID", "1", "RankID", "1").
		Add("Pipe_SoundEngine01", "PipeID", "1", "RankID", "1", "NormalMIDINoteNumber", "60").
		Add("Pipe_SoundEngine01_Layer", "LayerID", "1", "PipeID", "1").
		Add("Pipe_SoundEngine01_AttackSample", "UniqueID", "1", "LayerID", "1", "SampleID", "1").
		Add("Sample", "SampleID", "1", "InstallationPackageID", "1", "SampleFilename", `Flute\60.wav`)

	root = t.TempDir()

	return root, b.WriteFile(t, root, "Chapel.Organ_Hauptwerk_xml")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger("warn", "json", &buf)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelWarn))

	logger.Warn("hello")
	assert.True(t, strings.HasPrefix(buf.String(), "{"))

	assert.True(t, newLogger("bogus", "text", &buf).Enabled(t.Context(), slog.LevelInfo))
}

func TestParseSeverity(t *testing.T) {
	sev, err := parseSeverity("Warning")
	require.NoError(t, err)
	assert.Equal(t, diagnostic.Warning, sev)

	_, err = parseSeverity("loud")
	require.Error(t, err)
}

func TestDefaultOutput(t *testing.T) {
	got := defaultOutput(filepath.Join("hw", "OrganDefinitions", "Chapel.Organ_Hauptwerk_xml.zst"))

	assert.Equal(t, filepath.Join("hw", "Chapel.organ"), got)
}

func TestConvertAndCheck(t *testing.T) {
	root, path := source(t)

	stdout, _, err := execute(t, "convert", path, "--no-file-check")
	require.NoError(t, err)

	out := filepath.Join(root, "Chapel.organ")
	assert.Contains(t, stdout, "wrote "+out)
	assert.Contains(t, stdout, "blake3 ")

	_, err = os.Stat(out)
	require.NoError(t, err)

	stdout, _, err = execute(t, "check", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "sections")
}

func TestConvert_Flags(t *testing.T) {
	root, path := source(t)
	out := filepath.Join(root, "custom", "x.organ")

	_, _, err := execute(t, "convert", path, "-o", out, "--no-file-check", "--encoding", "ISO-8859-1")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.False(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	_, _, err = execute(t, "convert", path, "--encoding", "utf-16")
	require.Error(t, err)

	_, _, err = execute(t, "convert", path, "--show", "loud")
	require.Error(t, err)

	_, _, err = execute(t, "convert")
	require.Error(t, err)
}

func TestConvert_ConfigFile(t *testing.T) {
	root, path := source(t)
	cfgPath := filepath.Join(root, "hw2go.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("check_files: false\nencoding: iso-8859-1\n"), 0o644))

	out := filepath.Join(root, "cfg.organ")

	_, _, err := execute(t, "convert", path, "-c", cfgPath, "-o", out, "--encoding", "utf-8-bom")
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))
}

func TestCheck_Inconsistent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.organ")
	require.NoError(t, os.WriteFile(path, []byte("[Manual001]\nStop001=004\n"), 0o644))

	_, stderr, err := execute(t, "check", path)
	require.Error(t, err)
	assert.Contains(t, stderr, "dangling-ref")
}

func TestDictionaryAndVersion(t *testing.T) {
	stdout, _, err := execute(t, "dictionary")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Pipe_SoundEngine01")

	stdout, _, err = execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "hw2go version "+Version+"\n", stdout)
}
