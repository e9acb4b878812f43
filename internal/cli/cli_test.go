package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aspect-build/sndfile-go"
)

var ramp = []int16{
	-32768, -32768, -16384, -16384, 0, 0, 16384, 16384, 32767, 32767,
	-8192, -8192, 8192, 8192, -4096, -4096, 4096, 4096, 1, -1,
}

// writeFixture creates a 16-bit stereo WAV at path holding reps copies of ramp.
func writeFixture(t *testing.T, path string, reps int, tags map[sndfile.TagType]string) {
	t.Helper()
	f, err := sndfile.WriteOnly(sndfile.NewWriteOptions(
		sndfile.FormatWAV, sndfile.SubtypePCM16, sndfile.EndianFile, 44100, 2,
	)).OpenPath(path)
	require.NoError(t, err)
	for t2, v := range tags {
		require.NoError(t, f.SetTag(t2, v))
	}
	for range reps {
		_, err := f.Int16().WriteFrames(ramp)
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestFormatsCommand(t *testing.T) {
	out, err := run(t, "formats")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, sndfile.Version()))
	assert.Contains(t, out, "Containers:")
	assert.Contains(t, out, "WAV (Microsoft)")
	assert.Contains(t, out, "Encodings:")
	assert.Contains(t, out, "Signed 16 bit PCM")
}

func TestInfoCommand(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.wav")
	b := filepath.Join(dir, "b.wav")
	writeFixture(t, a, 10, map[sndfile.TagType]string{sndfile.TagArtist: "someone"})
	writeFixture(t, b, 1, nil)

	out, err := run(t, "info", "--jobs", "1", a, b)
	require.NoError(t, err)

	assert.Contains(t, out, a)
	assert.Contains(t, out, "Format:      WAV/PCM_16/FILE")
	assert.Contains(t, out, "Sample rate: 44100 Hz")
	assert.Contains(t, out, "Frames:      100")
	assert.Contains(t, out, "Frames:      10\n")
	assert.Contains(t, out, "artist:      someone")
	assert.Less(t, strings.Index(out, a), strings.Index(out, b), "results keep argument order")
}

func TestInfoCommandFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.wav")
	writeFixture(t, good, 1, nil)

	out, err := run(t, "info", good, filepath.Join(dir, "missing.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files")
	assert.Contains(t, out, good)

	_, err = run(t, "info", "--jobs", "0", good)
	assert.Error(t, err)
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.wav")
	dst := filepath.Join(dir, "out.flac")
	writeFixture(t, src, 500, map[sndfile.TagType]string{sndfile.TagTitle: "ramp"})

	_, err := run(t, "convert", src, dst)
	require.NoError(t, err)

	f, err := sndfile.ReadOnly(sndfile.Auto).OpenPath(dst)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, sndfile.FormatFLAC, f.MajorFormat())
	assert.Equal(t, sndfile.SubtypePCM16, f.SubtypeFormat())
	assert.Equal(t, 44100, f.SampleRate())
	assert.Equal(t, 2, f.Channels())
	assert.Equal(t, int64(500*len(ramp)/2), f.Frames())

	got, err := f.Int16().ReadAll()
	require.NoError(t, err)
	require.Len(t, got, 500*len(ramp))
	for i, v := range got {
		require.InDelta(t, ramp[i%len(ramp)], v, 1, "sample %d", i)
	}

	title, ok := f.Tag(sndfile.TagTitle)
	assert.True(t, ok)
	assert.Equal(t, "ramp", title)
}

func TestConvertSubtype(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.wav")
	dst := filepath.Join(dir, "out.aiff")
	writeFixture(t, src, 3, nil)

	_, err := run(t, "convert", "--subtype", "float", "--endian", "big", src, dst)
	require.NoError(t, err)

	f, err := sndfile.ReadOnly(sndfile.Auto).OpenPath(dst)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, sndfile.FormatAIFF, f.MajorFormat())
	assert.Equal(t, sndfile.SubtypeFloat, f.SubtypeFormat())

	got, err := f.Float64().ReadAll()
	require.NoError(t, err)
	for i, v := range got {
		require.InDelta(t, float64(ramp[i%len(ramp)])/32768, v, 1e-6, "sample %d", i)
	}
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.wav")
	writeFixture(t, src, 1, nil)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown extension", []string{src, filepath.Join(dir, "out.doc")}, "no container"},
		{"unknown subtype", []string{"--subtype", "mp3", src, filepath.Join(dir, "out.wav")}, "unknown subtype"},
		{"unknown endian", []string{"--endian", "middle", src, filepath.Join(dir, "out.wav")}, "unknown endian"},
		{"rejected encoding", []string{"--subtype", "vorbis", src, filepath.Join(dir, "out.wav")}, "unsupported encoding"},
		{"raw needs subtype", []string{src, filepath.Join(dir, "out.raw")}, "no default subtype"},
		{"missing input", []string{filepath.Join(dir, "nope.wav"), filepath.Join(dir, "out.wav")}, "failed to open input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"convert"}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTagCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tagged.wav")
	writeFixture(t, path, 4, nil)

	_, err := run(t, "tag", "get", path, "title")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no title tag")

	_, err = run(t, "tag", "set", path, "title", "new title")
	require.NoError(t, err)

	out, err := run(t, "tag", "get", path, "title")
	require.NoError(t, err)
	assert.Equal(t, "new title\n", out)

	_, err = run(t, "tag", "set", path, "lyrics", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tag")

	// Audio is untouched.
	f, err := sndfile.ReadOnly(sndfile.Auto).OpenPath(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.Int16().ReadAll()
	require.NoError(t, err)
	assert.Len(t, got, 4*len(ramp))
	assert.Equal(t, ramp, got[:len(ramp)])
}
