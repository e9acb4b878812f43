// Package sndfile provides Go bindings for libsndfile with all file access
// routed through Go streams.
//
// libsndfile reads and writes WAV, AIFF, FLAC, OGG and many other containers.
// This package never hands libsndfile a file descriptor: every byte goes through
// the virtual I/O callbacks, so any io.ReadWriteSeeker can back an audio file.
//
// # Basic Usage
//
//	import "github.com/aspect-build/sndfile-go"
//
//	// Write a stereo 24-bit WAV file
//	opts := sndfile.WriteOnly(sndfile.NewWriteOptions(
//	    sndfile.FormatWAV, sndfile.SubtypePCM24, sndfile.EndianFile, 44100, 2))
//	f, err := opts.OpenPath("tone.wav")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	_, err = f.Int16().WriteFrames(samples)
//
//	// Read it back as floats
//	r, err := sndfile.ReadOnly(sndfile.Auto).OpenPath("tone.wav")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	data, err := r.Float32().ReadAll()
//
// # Thread Safety
//
// A File may be passed between goroutines, but calls on the same File must be
// serialized by the caller. Distinct Files can be used concurrently; the only
// shared state is a short global lock around sf_open_virtual, see GlobalLock.
package sndfile

/*
#cgo pkg-config: sndfile
#cgo linux LDFLAGS: -lm

#include <stdlib.h>
#include <sndfile.h>
*/
import "C"
import (
	"fmt"
	"runtime"
	"strings"
)

// Version returns the libsndfile version string, e.g. "libsndfile-1.2.2".
func Version() string {
	return C.GoString(C.sf_version_string())
}

// VersionInfo contains the parsed libsndfile version.
type VersionInfo struct {
	Major int
	Minor int
	Patch int
}

// GetVersionInfo returns the libsndfile version numbers.
// Fields that cannot be parsed are left at zero.
func GetVersionInfo() VersionInfo {
	var v VersionInfo
	s := strings.TrimPrefix(Version(), "libsndfile-")
	// Release candidates carry a suffix such as "1.1.0pre1".
	fmt.Sscanf(s, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch)
	return v
}

// String returns the version as a formatted string.
func (v VersionInfo) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// keepAlive prevents the GC from collecting an object while native code is using it.
func keepAlive(obj interface{}) {
	runtime.KeepAlive(obj)
}
