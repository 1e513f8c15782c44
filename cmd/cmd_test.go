package cmd

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/picpack/internal/api"
	"github.com/AnyUserName/picpack/internal/pipeline"
	"github.com/disintegration/imaging"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with fresh flag state.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := Execute()
	return stdout.String(), stderr.String(), err
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, imaging.New(w, h, color.NRGBA{128, 128, 128, 255})))
	require.NoError(t, f.Close())
	return path
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestPlaceholderCommand(t *testing.T) {
	in := writePNG(t, 100, 100)
	out, _, err := run(t, "placeholder", in)
	require.NoError(t, err)

	var rec api.PlaceholderRecord
	require.NoError(t, api.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "#85817fff", rec.Average)
	assert.Equal(t, &api.Metadata{Width: 100, Height: 100, Format: "image/png"}, rec.Metadata)
}

func TestPlaceholderCommand_Error(t *testing.T) {
	in := writeFile(t, "junk.bin", []byte("not an image"))
	out, _, err := run(t, "placeholder", in)
	assert.ErrorIs(t, err, errReported)
	assert.JSONEq(t, `{"error":"`+pipeline.MsgDecode+`"}`, out)
}

func TestExecute_ReleasesLoggerOnFailure(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "picpack.log")
	t.Setenv("PICPACK_LOG_FILE", logFile)
	t.Setenv("PICPACK_LOG_JSON", "true")

	in := writeFile(t, "junk.bin", []byte("not an image"))
	_, _, err := run(t, "placeholder", "--verbose", in)
	assert.ErrorIs(t, err, errReported)
	assert.Nil(t, logCloser)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"placeholder failed"`)
}

func TestPlaceholderCommand_MissingFile(t *testing.T) {
	_, _, err := run(t, "placeholder", filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, errReported)
}

func TestResizeCommand(t *testing.T) {
	in := writePNG(t, 200, 100)
	dst := filepath.Join(t.TempDir(), "out.png")
	_, _, err := run(t, "resize", in, "--width", "50", "-o", dst)
	require.NoError(t, err)

	f, err := os.Open(dst)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 25, cfg.Height)
}

func TestResizeCommand_OptionsStdout(t *testing.T) {
	in := writePNG(t, 200, 100)
	out, _, err := run(t, "resize", in, "--options", `{"width":40,"height":40,"fit":"contain"}`)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader([]byte(out)))
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.Width)
	assert.Equal(t, 20, cfg.Height)
}

func TestResizeCommand_BadOptions(t *testing.T) {
	in := writePNG(t, 20, 20)
	out, errOut, err := run(t, "resize", in, "--options", `{"width":`)
	assert.ErrorIs(t, err, errReported)
	assert.Empty(t, out)
	assert.JSONEq(t, `{"error":"`+pipeline.MsgOptions+`"}`, errOut)
}

func TestFingerprintCommand(t *testing.T) {
	a := writeFile(t, "a.txt", []byte("a"))
	empty := writeFile(t, "empty.txt", nil)
	out, _, err := run(t, "fingerprint", a, empty)
	require.NoError(t, err)
	assert.Equal(t, "e6c632b61e96  "+a+"\n2d06800538d3  "+empty+"\n", out)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2<<20))
}
