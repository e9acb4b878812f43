package sndfile

import (
	"errors"
	"io"
	"io/fs"
)

// Stream is the host byte stream behind a File.
//
// If the stream also implements io.Closer it is closed when the File is closed.
// Its length is taken from Stat or Size when available, and from seeking to
// the end otherwise.
type Stream interface {
	io.Reader
	io.Writer
	io.Seeker
}

type statter interface {
	Stat() (fs.FileInfo, error)
}

type sizer interface {
	Size() int64
}

// streamLength returns the total byte size of s without moving its cursor.
func streamLength(s Stream) (int64, error) {
	switch v := s.(type) {
	case statter:
		fi, err := v.Stat()
		if err != nil {
			return 0, err
		}
		return fi.Size(), nil
	case sizer:
		return v.Size(), nil
	}
	cur, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := s.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := s.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}
	return end, nil
}

var errNegativeOffset = errors.New("negative position")

// Buffer is an in-memory Stream. The zero value is an empty buffer ready for use.
type Buffer struct {
	data   []byte
	offset int64
}

// NewBuffer returns a Buffer positioned at the start of data.
// The Buffer takes ownership of data.
func NewBuffer(data []byte) *Buffer {
	return &Buffer{data: data}
}

// Bytes returns the buffer contents. The slice is valid until the next write.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Size returns the length of the buffer contents.
func (b *Buffer) Size() int64 {
	return int64(len(b.data))
}

func (b *Buffer) Read(p []byte) (int, error) {
	if b.offset >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.offset:])
	b.offset += int64(n)
	return n, nil
}

// Write writes p at the current offset, growing the buffer as needed.
// Writing past the end zero-fills the gap.
func (b *Buffer) Write(p []byte) (int, error) {
	end := b.offset + int64(len(p))
	if end > int64(len(b.data)) {
		if end > int64(cap(b.data)) {
			grown := make([]byte, end, max(end, 2*int64(cap(b.data))))
			copy(grown, b.data)
			b.data = grown
		} else {
			old := len(b.data)
			b.data = b.data[:end]
			clear(b.data[old:])
		}
	}
	n := copy(b.data[b.offset:], p)
	b.offset += int64(n)
	return n, nil
}

func (b *Buffer) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = b.offset + offset
	case io.SeekEnd:
		abs = int64(len(b.data)) + offset
	default:
		return 0, errors.New("invalid whence")
	}
	if abs < 0 {
		return 0, errNegativeOffset
	}
	b.offset = abs
	return abs, nil
}
