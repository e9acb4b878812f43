package sndfile

/*
#include <stdlib.h>
#include <sndfile.h>
*/
import "C"
import (
	"strings"
	"unsafe"
)

// TagType identifies a string tag.
type TagType int

const (
	TagTitle TagType = iota + 1
	TagCopyright
	TagSoftware
	TagArtist
	TagComment
	TagDate
	TagAlbum
	TagLicense
	TagTrackNumber
	TagGenre
)

var tagTable = []formatEntry[TagType]{
	{TagTitle, C.SF_STR_TITLE, "title"},
	{TagCopyright, C.SF_STR_COPYRIGHT, "copyright"},
	{TagSoftware, C.SF_STR_SOFTWARE, "software"},
	{TagArtist, C.SF_STR_ARTIST, "artist"},
	{TagComment, C.SF_STR_COMMENT, "comment"},
	{TagDate, C.SF_STR_DATE, "date"},
	{TagAlbum, C.SF_STR_ALBUM, "album"},
	{TagLicense, C.SF_STR_LICENSE, "license"},
	{TagTrackNumber, C.SF_STR_TRACKNUMBER, "tracknumber"},
	{TagGenre, C.SF_STR_GENRE, "genre"},
}

// TagTypes returns every tag type in declaration order.
func TagTypes() []TagType {
	out := make([]TagType, len(tagTable))
	for i, e := range tagTable {
		out[i] = e.value
	}
	return out
}

func (t TagType) String() string {
	if e, ok := lookupValue(tagTable, t); ok {
		return e.name
	}
	return "unknown"
}

// ParseTagType parses a tag name such as "title" or "tracknumber".
func ParseTagType(name string) (TagType, bool) {
	return lookupName(tagTable, name)
}

// Tag returns the value of tag t. A tag that is missing or empty is
// reported as absent.
func (f *File) Tag(t TagType) (string, bool) {
	e, ok := lookupValue(tagTable, t)
	if !ok || f.sf == nil {
		return "", false
	}
	cs := C.sf_get_string(f.sf, C.int(e.flag))
	keepAlive(f)
	if cs == nil {
		return "", false
	}
	v := C.GoString(cs)
	return v, v != ""
}

// Tags returns every tag that is present.
func (f *File) Tags() map[TagType]string {
	out := make(map[TagType]string)
	for _, e := range tagTable {
		if v, ok := f.Tag(e.value); ok {
			out[e.value] = v
		}
	}
	return out
}

// SetTag sets tag t to v. The File must be open in a writable mode.
// Not every container can store every tag.
func (f *File) SetTag(t TagType, v string) error {
	if f.sf == nil {
		return ErrClosed
	}
	e, ok := lookupValue(tagTable, t)
	if !ok {
		return invalidParameter("set_string", "unknown tag type %d", int(t))
	}
	if !f.mode.writable() {
		return invalidParameter("set_string", "file is not open for writing")
	}
	if strings.IndexByte(v, 0) >= 0 {
		return invalidParameter("set_string", "tag value contains a NUL byte")
	}
	cs := C.CString(v)
	defer C.free(unsafe.Pointer(cs))

	code := int(C.sf_set_string(f.sf, C.int(e.flag), cs))
	keepAlive(f)
	if err := f.b.stream.takeErr(); err != nil {
		return codeError("set_string", code, err)
	}
	if code != C.SF_ERR_NO_ERROR {
		return codeError("set_string", code, nil)
	}
	return nil
}
