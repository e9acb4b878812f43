package sndfile

/*
#include <stdint.h>
#include <stdlib.h>
#include <sndfile.h>

extern sf_count_t sfgoGetFilelen(void *user_data);
extern sf_count_t sfgoSeek(sf_count_t offset, int whence, void *user_data);
extern sf_count_t sfgoRead(void *ptr, sf_count_t count, void *user_data);
extern sf_count_t sfgoWrite(void *ptr, sf_count_t count, void *user_data);
extern sf_count_t sfgoTell(void *user_data);
*/
import "C"
import (
	"errors"
	"fmt"
	"io"
	"runtime/cgo"
	"unsafe"
)

// virtualStream is the Go state behind a virtual I/O token.
// It is only ever touched from the goroutine that is inside a libsndfile call.
type virtualStream struct {
	s   Stream
	err error
}

// fail records the first bridge error and returns the value libsndfile
// treats as a failed I/O call.
func (vs *virtualStream) fail(op string, err error) C.sf_count_t {
	logger().Debug("virtual io failed", "op", op, "error", err)
	if vs.err == nil {
		vs.err = fmt.Errorf("%s: %w", op, err)
	}
	return -1
}

// takeErr returns and clears the pending bridge error.
func (vs *virtualStream) takeErr() error {
	err := vs.err
	vs.err = nil
	return err
}

// recoverPanic turns a panic in a host stream into a bridge failure so it
// never unwinds through libsndfile's frames.
func (vs *virtualStream) recoverPanic(op string, ret *C.sf_count_t) {
	if r := recover(); r != nil {
		*ret = vs.fail(op, fmt.Errorf("panic: %v", r))
	}
}

// bridge owns the C allocations handed to sf_open_virtual. The table and the
// token live in C memory so their addresses are stable; the token holds a
// cgo.Handle that resolves to the virtualStream.
type bridge struct {
	vio    *C.SF_VIRTUAL_IO
	token  *C.uintptr_t
	handle cgo.Handle
	stream *virtualStream
}

func newBridge(s Stream) *bridge {
	vio := (*C.SF_VIRTUAL_IO)(C.calloc(1, C.size_t(unsafe.Sizeof(C.SF_VIRTUAL_IO{}))))
	vio.get_filelen = C.sf_vio_get_filelen(C.sfgoGetFilelen)
	vio.seek = C.sf_vio_seek(C.sfgoSeek)
	vio.read = C.sf_vio_read(C.sfgoRead)
	vio.write = C.sf_vio_write(C.sfgoWrite)
	vio.tell = C.sf_vio_tell(C.sfgoTell)

	vs := &virtualStream{s: s}
	h := cgo.NewHandle(vs)
	token := (*C.uintptr_t)(C.malloc(C.size_t(unsafe.Sizeof(C.uintptr_t(0)))))
	*token = C.uintptr_t(h)

	return &bridge{vio: vio, token: token, handle: h, stream: vs}
}

// userData returns the opaque token passed to libsndfile.
func (b *bridge) userData() unsafe.Pointer {
	return unsafe.Pointer(b.token)
}

// free releases the C allocations and the handle, then closes the host stream.
// It must only be called once libsndfile no longer holds the token.
func (b *bridge) free() error {
	if b.vio == nil {
		return nil
	}
	C.free(unsafe.Pointer(b.vio))
	C.free(unsafe.Pointer(b.token))
	b.vio = nil
	b.token = nil
	b.handle.Delete()

	if c, ok := b.stream.s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func streamFromToken(userData unsafe.Pointer) *virtualStream {
	h := cgo.Handle(*(*C.uintptr_t)(userData))
	return h.Value().(*virtualStream)
}

//export sfgoGetFilelen
func sfgoGetFilelen(userData unsafe.Pointer) (ret C.sf_count_t) {
	vs := streamFromToken(userData)
	defer vs.recoverPanic("length", &ret)

	n, err := streamLength(vs.s)
	if err != nil {
		return vs.fail("length", err)
	}
	return C.sf_count_t(n)
}

//export sfgoSeek
func sfgoSeek(offset C.sf_count_t, whence C.int, userData unsafe.Pointer) (ret C.sf_count_t) {
	vs := streamFromToken(userData)
	defer vs.recoverPanic("seek", &ret)

	var w int
	switch whence {
	case C.SF_SEEK_SET:
		w = io.SeekStart
	case C.SF_SEEK_CUR:
		w = io.SeekCurrent
	case C.SF_SEEK_END:
		w = io.SeekEnd
	default:
		return vs.fail("seek", fmt.Errorf("invalid whence %d", int(whence)))
	}
	pos, err := vs.s.Seek(int64(offset), w)
	if err != nil {
		return vs.fail("seek", err)
	}
	return C.sf_count_t(pos)
}

//export sfgoRead
func sfgoRead(ptr unsafe.Pointer, count C.sf_count_t, userData unsafe.Pointer) (ret C.sf_count_t) {
	vs := streamFromToken(userData)
	defer vs.recoverPanic("read", &ret)

	if count <= 0 {
		return 0
	}
	dst := unsafe.Slice((*byte)(ptr), int(count))
	n, err := io.ReadFull(vs.s, dst)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return vs.fail("read", err)
	}
	return C.sf_count_t(n)
}

//export sfgoWrite
func sfgoWrite(ptr unsafe.Pointer, count C.sf_count_t, userData unsafe.Pointer) (ret C.sf_count_t) {
	vs := streamFromToken(userData)
	defer vs.recoverPanic("write", &ret)

	if count <= 0 {
		return 0
	}
	src := unsafe.Slice((*byte)(ptr), int(count))
	n, err := vs.s.Write(src)
	if err != nil {
		return vs.fail("write", err)
	}
	return C.sf_count_t(n)
}

//export sfgoTell
func sfgoTell(userData unsafe.Pointer) (ret C.sf_count_t) {
	vs := streamFromToken(userData)
	defer vs.recoverPanic("tell", &ret)

	pos, err := vs.s.Seek(0, io.SeekCurrent)
	if err != nil {
		return vs.fail("tell", err)
	}
	return C.sf_count_t(pos)
}
