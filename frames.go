package sndfile

/*
#include <sndfile.h>
*/
import "C"
import (
	"io"
	"iter"
	"slices"
	"unsafe"
)

// Sample is the closed set of sample types libsndfile transfers natively.
type Sample interface {
	int16 | int32 | float32 | float64
}

// FrameIO reads and writes interleaved frames of one sample type.
// Every buffer length must be a whole number of frames, that is a multiple
// of Channels. Reads and writes share the File's cursor.
type FrameIO[T Sample] interface {
	// ReadFrames fills dst from the cursor and returns the number of frames read.
	ReadFrames(dst []T) (int, error)
	// WriteFrames writes src at the cursor and returns the number of frames written.
	WriteFrames(src []T) (int, error)
	// ReadAll seeks to the start and reads every frame. The File must be seekable.
	ReadAll() ([]T, error)
	// Channels returns the number of samples per frame.
	Channels() int
}

// Int16 returns frame I/O through sf_readf_short and sf_writef_short.
// 8-bit encodings are widened to 16 bits.
func (f *File) Int16() FrameIO[int16] {
	return shortIO{f}
}

// Int32 returns frame I/O through sf_readf_int and sf_writef_int.
func (f *File) Int32() FrameIO[int32] {
	return intIO{f}
}

// Float32 returns frame I/O through sf_readf_float and sf_writef_float.
// Integer encodings are scaled to [-1.0, 1.0).
func (f *File) Float32() FrameIO[float32] {
	return floatIO{f}
}

// Float64 returns frame I/O through sf_readf_double and sf_writef_double.
// Integer encodings are scaled to [-1.0, 1.0).
func (f *File) Float64() FrameIO[float64] {
	return doubleIO{f}
}

// frameCount checks a buffer of n samples and converts it to frames.
// write selects the direction the File's mode must allow.
func (f *File) frameCount(op string, n int, write bool) (C.sf_count_t, error) {
	if f.sf == nil {
		return 0, ErrClosed
	}
	if write && !f.mode.writable() {
		return 0, invalidParameter(op, "file is not open for writing")
	}
	if !write && f.mode == ModeWrite {
		return 0, invalidParameter(op, "file is not open for reading")
	}
	if n%f.channels != 0 {
		return 0, invalidParameter(op, "buffer length %d is not a multiple of %d channels", n, f.channels)
	}
	return C.sf_count_t(n / f.channels), nil
}

// transferred converts an engine frame count into the returned result.
// Frames that did move are reported even when an error is returned.
func (f *File) transferred(op string, n C.sf_count_t) (int, error) {
	if err := f.check(op, int64(n)); err != nil {
		return max(int(n), 0), err
	}
	return int(n), nil
}

func readAll[T Sample](f *File, r FrameIO[T]) ([]T, error) {
	if f.sf == nil {
		return nil, ErrClosed
	}
	if !f.seekable {
		return nil, ErrNotSeekable
	}
	frames, err := f.Len()
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]T, frames*int64(f.channels))
	n, err := r.ReadFrames(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n*f.channels], nil
}

type shortIO struct{ f *File }

func (s shortIO) Channels() int { return s.f.channels }

func (s shortIO) ReadFrames(dst []int16) (int, error) {
	frames, err := s.f.frameCount("readf_short", len(dst), false)
	if err != nil || frames == 0 {
		return 0, err
	}
	n := C.sf_readf_short(s.f.sf, (*C.short)(unsafe.Pointer(&dst[0])), frames)
	keepAlive(s.f)
	return s.f.transferred("readf_short", n)
}

func (s shortIO) WriteFrames(src []int16) (int, error) {
	frames, err := s.f.frameCount("writef_short", len(src), true)
	if err != nil || frames == 0 {
		return 0, err
	}
	n := C.sf_writef_short(s.f.sf, (*C.short)(unsafe.Pointer(&src[0])), frames)
	keepAlive(s.f)
	return s.f.transferred("writef_short", n)
}

func (s shortIO) ReadAll() ([]int16, error) { return readAll[int16](s.f, s) }

type intIO struct{ f *File }

func (s intIO) Channels() int { return s.f.channels }

func (s intIO) ReadFrames(dst []int32) (int, error) {
	frames, err := s.f.frameCount("readf_int", len(dst), false)
	if err != nil || frames == 0 {
		return 0, err
	}
	n := C.sf_readf_int(s.f.sf, (*C.int)(unsafe.Pointer(&dst[0])), frames)
	keepAlive(s.f)
	return s.f.transferred("readf_int", n)
}

func (s intIO) WriteFrames(src []int32) (int, error) {
	frames, err := s.f.frameCount("writef_int", len(src), true)
	if err != nil || frames == 0 {
		return 0, err
	}
	n := C.sf_writef_int(s.f.sf, (*C.int)(unsafe.Pointer(&src[0])), frames)
	keepAlive(s.f)
	return s.f.transferred("writef_int", n)
}

func (s intIO) ReadAll() ([]int32, error) { return readAll[int32](s.f, s) }

type floatIO struct{ f *File }

func (s floatIO) Channels() int { return s.f.channels }

func (s floatIO) ReadFrames(dst []float32) (int, error) {
	frames, err := s.f.frameCount("readf_float", len(dst), false)
	if err != nil || frames == 0 {
		return 0, err
	}
	n := C.sf_readf_float(s.f.sf, (*C.float)(unsafe.Pointer(&dst[0])), frames)
	keepAlive(s.f)
	return s.f.transferred("readf_float", n)
}

func (s floatIO) WriteFrames(src []float32) (int, error) {
	frames, err := s.f.frameCount("writef_float", len(src), true)
	if err != nil || frames == 0 {
		return 0, err
	}
	n := C.sf_writef_float(s.f.sf, (*C.float)(unsafe.Pointer(&src[0])), frames)
	keepAlive(s.f)
	return s.f.transferred("writef_float", n)
}

func (s floatIO) ReadAll() ([]float32, error) { return readAll[float32](s.f, s) }

type doubleIO struct{ f *File }

func (s doubleIO) Channels() int { return s.f.channels }

func (s doubleIO) ReadFrames(dst []float64) (int, error) {
	frames, err := s.f.frameCount("readf_double", len(dst), false)
	if err != nil || frames == 0 {
		return 0, err
	}
	n := C.sf_readf_double(s.f.sf, (*C.double)(unsafe.Pointer(&dst[0])), frames)
	keepAlive(s.f)
	return s.f.transferred("readf_double", n)
}

func (s doubleIO) WriteFrames(src []float64) (int, error) {
	frames, err := s.f.frameCount("writef_double", len(src), true)
	if err != nil || frames == 0 {
		return 0, err
	}
	n := C.sf_writef_double(s.f.sf, (*C.double)(unsafe.Pointer(&src[0])), frames)
	keepAlive(s.f)
	return s.f.transferred("writef_double", n)
}

func (s doubleIO) ReadAll() ([]float64, error) { return readAll[float64](s.f, s) }

// WriteSeq collects seq into a contiguous buffer and writes it as frames.
// seq must be finite and yield a whole number of frames.
func WriteSeq[T Sample](w FrameIO[T], seq iter.Seq[T]) (int, error) {
	return w.WriteFrames(slices.Collect(seq))
}

// ReadEach reads up to n samples and passes each one read to fn with its index.
// n must be a whole number of frames. It returns the number of frames read.
func ReadEach[T Sample](r FrameIO[T], n int, fn func(i int, v T)) (int, error) {
	if n < 0 {
		return 0, invalidParameter("read_each", "sample count must not be negative, got %d", n)
	}
	buf := make([]T, n)
	frames, err := r.ReadFrames(buf)
	for i, v := range buf[:frames*r.Channels()] {
		fn(i, v)
	}
	return frames, err
}
