package sndfile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedFormats(t *testing.T) {
	majors := MajorFormats()
	subtypes := SubtypeFormats()
	t.Logf("libsndfile reports %d containers and %d encodings", len(majors), len(subtypes))

	wav, ok := majors[FormatWAV]
	require.True(t, ok)
	assert.Equal(t, "WAV (Microsoft)", wav.Name)
	assert.Equal(t, "wav", wav.Extension)

	pcm16, ok := subtypes[SubtypePCM16]
	require.True(t, ok)
	assert.Equal(t, "Signed 16 bit PCM", pcm16.Name)

	// Returned maps are copies.
	delete(majors, FormatWAV)
	_, ok = MajorFormats()[FormatWAV]
	assert.True(t, ok)
}

func TestCheckFormat(t *testing.T) {
	assert.True(t, CheckFormat(3, 44100, Format{FormatFLAC, SubtypePCM24, EndianFile}))
	assert.True(t, CheckFormat(2, 8000, Format{FormatWAV, SubtypePCM16, EndianFile}))
	assert.False(t, CheckFormat(2, 8000, Format{FormatWAV, SubtypeVorbis, EndianFile}))
	assert.False(t, CheckFormat(0, 8000, Format{FormatWAV, SubtypePCM16, EndianFile}))
	assert.False(t, CheckFormat(2, 0, Format{FormatWAV, SubtypePCM16, EndianFile}))
	assert.False(t, CheckFormat(2, 8000, Format{}))
}

func TestFormatFlagsRoundTrip(t *testing.T) {
	for _, m := range majorTable {
		for _, s := range subtypeTable {
			for _, e := range endianTable {
				f := Format{Major: m.value, Subtype: s.value, Endian: e.value}
				flags, ok := f.Flags()
				require.True(t, ok, f.String())

				got, ok := FormatFromFlags(flags)
				require.True(t, ok, "flags %#x", flags)
				assert.Equal(t, f, got)
			}
		}
	}
}

func TestFormatFromUnknownFlags(t *testing.T) {
	_, ok := FormatFromFlags(0)
	assert.False(t, ok)

	wav, _ := Format{FormatWAV, SubtypePCM16, EndianFile}.Flags()
	// 0x0FFF0000 is the container mask; no container uses it all.
	_, ok = FormatFromFlags(wav | 0x0FFF0000)
	assert.False(t, ok)
	// 0xFFFF is the encoding mask.
	_, ok = FormatFromFlags(wav | 0xFFFF)
	assert.False(t, ok)

	_, ok = Format{Major: MajorFormat(999), Subtype: SubtypePCM16}.Flags()
	assert.False(t, ok)
}

func TestFormatStrings(t *testing.T) {
	assert.Equal(t, "WAV", FormatWAV.String())
	assert.Equal(t, "PCM_24", SubtypePCM24.String())
	assert.Equal(t, "FILE", EndianFile.String())
	assert.Equal(t, "UNKNOWN", MajorFormat(0).String())
	assert.Equal(t, "FLAC/PCM_16/FILE", Format{FormatFLAC, SubtypePCM16, EndianFile}.String())
}

func TestParseFormatNames(t *testing.T) {
	m, ok := ParseMajorFormat("flac")
	require.True(t, ok)
	assert.Equal(t, FormatFLAC, m)

	s, ok := ParseSubtypeFormat("pcm_24")
	require.True(t, ok)
	assert.Equal(t, SubtypePCM24, s)

	e, ok := ParseEndian("Little")
	require.True(t, ok)
	assert.Equal(t, EndianLittle, e)

	_, ok = ParseSubtypeFormat("mp3")
	assert.False(t, ok)
}

func TestMajorFormatFromExtension(t *testing.T) {
	m, ok := MajorFormatFromExtension(".WAV")
	require.True(t, ok)
	assert.Equal(t, FormatWAV, m)

	m, ok = MajorFormatFromExtension("flac")
	require.True(t, ok)
	assert.Equal(t, FormatFLAC, m)

	_, ok = MajorFormatFromExtension("")
	assert.False(t, ok)
	_, ok = MajorFormatFromExtension("doc")
	assert.False(t, ok)
}

func TestDefaultSubtype(t *testing.T) {
	tests := []struct {
		major MajorFormat
		want  SubtypeFormat
	}{
		{FormatWAV, SubtypePCM16},
		{FormatMAT5, SubtypeDouble},
		{FormatXI, SubtypeDPCM16},
		{FormatWVE, SubtypeALaw},
		{FormatOGG, SubtypeVorbis},
	}
	for _, tt := range tests {
		got, ok := DefaultSubtype(tt.major)
		require.True(t, ok, tt.major.String())
		assert.Equal(t, tt.want, got, tt.major.String())
	}

	_, ok := DefaultSubtype(FormatRAW)
	assert.False(t, ok)

	// Every container but RAW has a default.
	for _, e := range majorTable {
		_, ok := DefaultSubtype(e.value)
		assert.Equal(t, e.value != FormatRAW, ok, e.name)
	}
}
