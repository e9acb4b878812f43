package sndfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	youpywav "github.com/youpy/go-wav"
	"golang.org/x/sync/errgroup"
)

// rampFrames returns n stereo frames of desiredBuf repeated.
func rampFrames(n int) []int16 {
	out := make([]int16, 0, n*2)
	for len(out) < n*2 {
		out = append(out, desiredBuf[:]...)
	}
	return out[:n*2]
}

func encodePCM16(t *testing.T, major MajorFormat, samples []int16) []byte {
	t.Helper()
	var stream Buffer
	w, err := WriteOnly(NewWriteOptions(major, SubtypePCM16, EndianFile, 8000, 2)).Open(&stream)
	require.NoError(t, err)
	_, err = w.Int16().WriteFrames(samples)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return stream.Bytes()
}

func TestWAVReadableByGoAudio(t *testing.T) {
	samples := rampFrames(1000)
	data := encodePCM16(t, FormatWAV, samples)

	dec := gowav.NewDecoder(bytes.NewReader(data))
	require.True(t, dec.IsValidFile())
	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)

	assert.Equal(t, uint32(8000), dec.SampleRate)
	assert.Equal(t, uint16(2), dec.NumChans)
	assert.Equal(t, uint16(16), dec.BitDepth)
	require.Len(t, buf.Data, len(samples))
	for i, v := range buf.Data {
		require.Equal(t, int(samples[i]), v, "sample %d", i)
	}
}

func TestWAVFromGoAudio(t *testing.T) {
	samples := rampFrames(1000)
	data := make([]int, len(samples))
	for i, v := range samples {
		data[i] = int(v)
	}

	var stream Buffer
	enc := gowav.NewEncoder(&stream, 8000, 16, 2, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())

	r, err := ReadOnly(Auto).Open(NewBuffer(stream.Bytes()))
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, Format{FormatWAV, SubtypePCM16, EndianFile}, r.Format())
	got, err := r.Int16().ReadAll()
	require.NoError(t, err)
	assert.Equal(t, samples, got)
}

func TestAIFFReadableByGoAudio(t *testing.T) {
	samples := rampFrames(500)
	data := encodePCM16(t, FormatAIFF, samples)

	dec := aiff.NewDecoder(bytes.NewReader(data))
	require.True(t, dec.IsValidFile())
	dec.ReadInfo()
	require.Equal(t, uint16(16), dec.BitDepth)

	format := dec.Format()
	require.NotNil(t, format)
	assert.Equal(t, 2, format.NumChannels)
	assert.Equal(t, 8000, format.SampleRate)

	var got []int
	buf := &goaudio.IntBuffer{Data: make([]int, 256), Format: format}
	for {
		n, err := dec.PCMBuffer(buf)
		got = append(got, buf.Data[:n]...)
		if n == 0 || err != nil {
			break
		}
	}
	require.Len(t, got, len(samples))
	for i, v := range got {
		require.Equal(t, int(samples[i]), v, "sample %d", i)
	}
}

func TestWAVFromYoupy(t *testing.T) {
	samples := rampFrames(300)
	raw := make([]byte, len(samples)*2)
	for i, v := range samples {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(v))
	}

	var stream Buffer
	w := youpywav.NewWriter(&stream, uint32(len(samples)/2), 2, 8000, 16)
	_, err := w.Write(raw)
	require.NoError(t, err)

	r, err := ReadOnly(Auto).Open(NewBuffer(stream.Bytes()))
	require.NoError(t, err)
	defer r.Close()

	n, err := r.Len()
	require.NoError(t, err)
	assert.Equal(t, int64(300), n)

	got, err := r.Int16().ReadAll()
	require.NoError(t, err)
	assert.Equal(t, samples, got)
}

func TestWAVReadableByYoupy(t *testing.T) {
	samples := rampFrames(300)
	data := encodePCM16(t, FormatWAV, samples)

	rd := youpywav.NewReader(bytes.NewReader(data))
	format, err := rd.Format()
	require.NoError(t, err)
	assert.Equal(t, uint16(2), format.NumChannels)
	assert.Equal(t, uint32(8000), format.SampleRate)

	var got []int16
	for {
		frames, err := rd.ReadSamples(64)
		for _, s := range frames {
			got = append(got, int16(s.Values[0]), int16(s.Values[1]))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
	assert.Equal(t, samples, got)
}

func TestConcurrentFiles(t *testing.T) {
	formats := []MajorFormat{FormatWAV, FormatAIFF, FormatFLAC, FormatW64, FormatCAF, FormatAU}
	samples := rampFrames(2048)

	var g errgroup.Group
	results := make([][]int16, len(formats))
	for i, major := range formats {
		g.Go(func() error {
			var stream Buffer
			w, err := WriteOnly(NewWriteOptions(major, SubtypePCM16, EndianFile, 8000, 2)).Open(&stream)
			if err != nil {
				return err
			}
			if _, err := w.Int16().WriteFrames(samples); err != nil {
				w.Close()
				return err
			}
			if err := w.Close(); err != nil {
				return err
			}

			r, err := ReadOnly(Auto).Open(NewBuffer(stream.Bytes()))
			if err != nil {
				return err
			}
			defer r.Close()
			results[i], err = r.Int16().ReadAll()
			return err
		})
	}
	require.NoError(t, g.Wait())
	for i, got := range results {
		assert.Equal(t, samples, got, formats[i].String())
	}
}
