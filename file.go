package sndfile

/*
#include <stdlib.h>
#include <sndfile.h>
*/
import "C"
import (
	"fmt"
	"io"
	"os"
	"runtime"
	"time"
)

// Mode is the access mode a File is opened with.
type Mode int

const (
	// ModeRead opens an existing stream for reading.
	ModeRead Mode = iota + 1
	// ModeWrite creates or truncates a stream for writing.
	ModeWrite
	// ModeReadWrite opens an existing stream for reading and writing.
	ModeReadWrite
	// ModeWriteRead opens a stream for reading and writing, creating it if needed.
	ModeWriteRead
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "read"
	case ModeWrite:
		return "write"
	case ModeReadWrite:
		return "read-write"
	case ModeWriteRead:
		return "write-read"
	default:
		return "unknown"
	}
}

func (m Mode) sfMode() C.int {
	switch m {
	case ModeRead:
		return C.SFM_READ
	case ModeWrite:
		return C.SFM_WRITE
	default:
		return C.SFM_RDWR
	}
}

func (m Mode) fileFlags() int {
	switch m {
	case ModeRead:
		return os.O_RDONLY
	case ModeWrite:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ModeReadWrite:
		return os.O_RDWR
	default:
		return os.O_RDWR | os.O_CREATE
	}
}

func (m Mode) writable() bool {
	return m != ModeRead
}

// ReadOptions selects how an existing stream is interpreted.
// The zero value is Auto.
type ReadOptions struct {
	raw        bool
	samplerate int
	channels   int
	subtype    SubtypeFormat
	endian     Endian
}

// Auto lets libsndfile detect the format from the stream header.
var Auto = ReadOptions{}

// Raw reads a headerless stream with the given samplerate and channel count.
// Samples are taken to be 16-bit PCM in file byte order; use WithEncoding to
// change that.
func Raw(samplerate, channels int) ReadOptions {
	return ReadOptions{
		raw:        true,
		samplerate: samplerate,
		channels:   channels,
		subtype:    SubtypePCM16,
		endian:     EndianFile,
	}
}

// WithEncoding sets the sample encoding of a Raw stream. It has no effect on Auto.
func (r ReadOptions) WithEncoding(subtype SubtypeFormat, endian Endian) ReadOptions {
	if r.raw {
		r.subtype = subtype
		r.endian = endian
	}
	return r
}

// WriteOptions describes the stream to create.
type WriteOptions struct {
	Format     Format
	SampleRate int
	Channels   int
}

// NewWriteOptions creates write options.
//
// Parameters:
//   - major: Container, e.g. FormatWAV or FormatFLAC
//   - subtype: Encoding, e.g. SubtypePCM16 or SubtypeVorbis
//   - endian: Usually EndianFile
//   - samplerate: Sample rate in Hz, must be positive
//   - channels: Channel count, must be positive
func NewWriteOptions(major MajorFormat, subtype SubtypeFormat, endian Endian, samplerate, channels int) WriteOptions {
	return WriteOptions{
		Format:     Format{Major: major, Subtype: subtype, Endian: endian},
		SampleRate: samplerate,
		Channels:   channels,
	}
}

// Validate reports whether libsndfile accepts w for writing.
func (w WriteOptions) Validate() bool {
	return CheckFormat(w.Channels, w.SampleRate, w.Format)
}

// Options is a complete open request: a mode plus read or write options.
type Options struct {
	mode  Mode
	read  ReadOptions
	write WriteOptions
}

// ReadOnly opens an existing stream for reading.
func ReadOnly(r ReadOptions) Options {
	return Options{mode: ModeRead, read: r}
}

// WriteOnly creates a stream for writing. OpenPath truncates an existing file.
func WriteOnly(w WriteOptions) Options {
	return Options{mode: ModeWrite, write: w}
}

// ReadWrite opens an existing stream for reading and writing.
// OpenPath fails with ErrIO if the file does not exist.
func ReadWrite(r ReadOptions) Options {
	return Options{mode: ModeReadWrite, read: r}
}

// WriteRead opens a stream for reading and writing, creating the file if it
// does not exist. When the file already holds audio its format wins over w.
func WriteRead(w WriteOptions) Options {
	return Options{mode: ModeWriteRead, write: w}
}

// Mode returns the access mode.
func (o Options) Mode() Mode {
	return o.mode
}

func (o Options) usesWriteOptions() bool {
	return o.mode == ModeWrite || o.mode == ModeWriteRead
}

// validate checks everything that can be checked before a stream exists.
func (o Options) validate() error {
	switch {
	case o.usesWriteOptions():
		w := o.write
		if w.SampleRate <= 0 {
			return invalidParameter("open", "samplerate must be positive, got %d", w.SampleRate)
		}
		if w.Channels <= 0 {
			return invalidParameter("open", "channels must be positive, got %d", w.Channels)
		}
		if _, ok := w.Format.Flags(); !ok {
			return invalidParameter("open", "unknown format %v", w.Format)
		}
		if !w.Validate() {
			return &Error{
				Op:   "open",
				Kind: ErrUnsupportedEncoding,
				Msg:  fmt.Sprintf("%v is not valid for %d channels at %d Hz", w.Format, w.Channels, w.SampleRate),
			}
		}
	case o.mode == ModeRead || o.mode == ModeReadWrite:
		r := o.read
		if !r.raw {
			return nil
		}
		if r.samplerate <= 0 {
			return invalidParameter("open", "samplerate must be positive, got %d", r.samplerate)
		}
		if r.channels <= 0 {
			return invalidParameter("open", "channels must be positive, got %d", r.channels)
		}
		if _, ok := r.format().Flags(); !ok {
			return invalidParameter("open", "unknown raw encoding %v", r.format())
		}
	default:
		return invalidParameter("open", "unknown mode %d", int(o.mode))
	}
	return nil
}

func (r ReadOptions) format() Format {
	return Format{Major: FormatRAW, Subtype: r.subtype, Endian: r.endian}
}

// sfInfo builds the parameter block passed to sf_open_virtual.
// validate must have succeeded.
func (o Options) sfInfo() C.SF_INFO {
	var info C.SF_INFO
	switch {
	case o.usesWriteOptions():
		flags, _ := o.write.Format.Flags()
		info.samplerate = C.int(o.write.SampleRate)
		info.channels = C.int(o.write.Channels)
		info.format = C.int(flags)
	case o.read.raw:
		flags, _ := o.read.format().Flags()
		info.samplerate = C.int(o.read.samplerate)
		info.channels = C.int(o.read.channels)
		info.format = C.int(flags)
	}
	return info
}

// OpenPath opens the file at path. Options are validated before the file is
// touched, so a rejected write request never creates a file.
func (o Options) OpenPath(path string) (*File, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	fh, err := os.OpenFile(path, o.mode.fileFlags(), 0o644)
	if err != nil {
		return nil, &Error{Op: "open", Kind: ErrIO, Err: err}
	}
	return o.Open(fh)
}

// Open opens a File backed by s. The File takes ownership of s: if s is an
// io.Closer it is closed when the File is closed, or immediately if Open fails.
func (o Options) Open(s Stream) (*File, error) {
	if err := o.validate(); err != nil {
		closeStream(s)
		return nil, err
	}

	info := o.sfInfo()
	b := newBridge(s)

	var sf *C.SNDFILE
	var code int
	withGlobalLock(func() {
		sf = C.sf_open_virtual(b.vio, o.mode.sfMode(), &info, b.userData())
		if sf == nil {
			code = lastGlobalError()
		}
	})
	if sf == nil {
		err := codeError("open", code, b.stream.takeErr())
		b.free()
		logger().Debug("open failed", "mode", o.mode, "error", err)
		return nil, err
	}

	format, err := validateInfo(&info)
	if cause := b.stream.takeErr(); cause != nil {
		err = codeError("open", int(C.sf_error(sf)), cause)
	}
	if err != nil {
		C.sf_close(sf)
		b.free()
		logger().Warn("rejected stream parameters", "mode", o.mode, "error", err)
		return nil, err
	}

	C.sf_command(sf, C.SFC_SET_SCALE_FLOAT_INT_READ, nil, C.SF_TRUE)
	C.sf_command(sf, C.SFC_SET_SCALE_INT_FLOAT_WRITE, nil, C.SF_TRUE)

	f := &File{
		sf:         sf,
		b:          b,
		mode:       o.mode,
		samplerate: int(info.samplerate),
		channels:   int(info.channels),
		frames:     int64(info.frames),
		format:     format,
		seekable:   info.seekable != C.SF_FALSE,
	}
	runtime.SetFinalizer(f, (*File).Close)

	logger().Debug("opened",
		"mode", o.mode,
		"format", format,
		"samplerate", f.samplerate,
		"channels", f.channels,
		"frames", f.frames,
		"seekable", f.seekable)
	return f, nil
}

// validateInfo checks the parameters reported by sf_open_virtual.
func validateInfo(info *C.SF_INFO) (Format, error) {
	if info.frames < 0 {
		return Format{}, invalidParameter("open", "got invalid frame count %d, expect a non-negative number", int64(info.frames))
	}
	if info.samplerate <= 0 {
		return Format{}, invalidParameter("open", "got invalid samplerate %d, expect a positive number", int(info.samplerate))
	}
	if info.channels <= 0 {
		return Format{}, invalidParameter("open", "got invalid channels %d, expect a positive number", int(info.channels))
	}
	format, ok := FormatFromFlags(int(info.format))
	if !ok {
		return Format{}, invalidParameter("open", "got invalid format flags %#x", int(info.format))
	}
	return format, nil
}

func closeStream(s Stream) {
	if c, ok := s.(io.Closer); ok {
		c.Close()
	}
}

// File is an open audio stream.
type File struct {
	sf         *C.SNDFILE
	b          *bridge
	mode       Mode
	samplerate int
	channels   int
	frames     int64
	format     Format
	seekable   bool
}

// SampleRate returns the sample rate in Hz. It is always positive.
func (f *File) SampleRate() int {
	return f.samplerate
}

// Channels returns the channel count. It is always positive.
func (f *File) Channels() int {
	return f.channels
}

// Format returns the container, encoding and byte order.
func (f *File) Format() Format {
	return f.format
}

// MajorFormat returns the container format.
func (f *File) MajorFormat() MajorFormat {
	return f.format.Major
}

// SubtypeFormat returns the encoding.
func (f *File) SubtypeFormat() SubtypeFormat {
	return f.format.Subtype
}

// Endian returns the byte order, usually EndianFile.
func (f *File) Endian() Endian {
	return f.format.Endian
}

// Mode returns the mode the File was opened with.
func (f *File) Mode() Mode {
	return f.mode
}

// Seekable reports whether the File supports Seek, Len and ReadAll.
func (f *File) Seekable() bool {
	return f.seekable
}

// Frames returns the frame count reported when the File was opened.
// It does not track frames written since; use Len for the current length.
func (f *File) Frames() int64 {
	return f.frames
}

// Duration returns Frames as a duration at the File's sample rate.
func (f *File) Duration() time.Duration {
	return time.Duration(float64(f.frames) / float64(f.samplerate) * float64(time.Second))
}

// Seek moves the frame cursor and returns the new offset in frames.
// whence is io.SeekStart, io.SeekCurrent or io.SeekEnd.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f.sf == nil {
		return 0, ErrClosed
	}
	if !f.seekable {
		return 0, ErrNotSeekable
	}
	var w C.int
	switch whence {
	case io.SeekStart:
		w = C.SF_SEEK_SET
	case io.SeekCurrent:
		w = C.SF_SEEK_CUR
	case io.SeekEnd:
		w = C.SF_SEEK_END
	default:
		return 0, invalidParameter("seek", "invalid whence %d", whence)
	}
	pos := int64(C.sf_seek(f.sf, C.sf_count_t(offset), w))
	keepAlive(f)
	if err := f.check("seek", pos); err != nil {
		return 0, err
	}
	return pos, nil
}

// Len returns the length in frames. It leaves the cursor at the end.
func (f *File) Len() (int64, error) {
	return f.Seek(0, io.SeekEnd)
}

// check surfaces a pending bridge failure or a negative engine result.
func (f *File) check(op string, n int64) error {
	if cause := f.b.stream.takeErr(); cause != nil {
		return codeError(op, int(C.sf_error(f.sf)), cause)
	}
	if n < 0 {
		return codeError(op, int(C.sf_error(f.sf)), nil)
	}
	return nil
}

// Close flushes and closes the File, then closes the underlying stream.
// Closing an already closed File is a no-op. A host stream failure while
// libsndfile finalizes the file is returned as ErrSystem.
//
// A failure inside sf_close leaves libsndfile and the stream in an unknown
// state; Close panics with an *Error after releasing its resources.
func (f *File) Close() error {
	if f.sf == nil {
		return nil
	}
	code := int(C.sf_close(f.sf))
	f.sf = nil
	runtime.SetFinalizer(f, nil)

	cause := f.b.stream.takeErr()
	streamErr := f.b.free()
	if code != C.SF_ERR_NO_ERROR {
		panic(&Error{Op: "close", Code: code, Kind: kindForCode(code), Msg: errorNumber(code), Err: cause})
	}
	logger().Debug("closed", "format", f.format)
	// sf_close reports success even when finalizing the header failed in the
	// bridge, so the recorded cause is the only signal.
	if cause != nil {
		return codeError("close", code, cause)
	}
	if streamErr != nil {
		return &Error{Op: "close", Kind: ErrIO, Err: streamErr}
	}
	return nil
}
