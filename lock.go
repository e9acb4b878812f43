package sndfile

/*
#include <sndfile.h>
*/
import "C"
import "sync"

// globalMu guards the libsndfile entry points that are not safe to call
// concurrently regardless of handle: sf_open and the NULL-handle error queries.
var globalMu sync.Mutex

// GlobalLock returns the lock this package holds around sf_open_virtual and
// the NULL-handle error functions. Hold it when calling sf_open, sf_error(NULL),
// sf_strerror(NULL), sf_perror(NULL) or sf_error_str(NULL, ...) directly
// from other cgo code.
func GlobalLock() sync.Locker {
	return &globalMu
}

// withGlobalLock runs fn holding the global lock. fn must not call back
// into anything that takes the lock.
func withGlobalLock(fn func()) {
	globalMu.Lock()
	defer globalMu.Unlock()
	fn()
}

// lastGlobalError reads the NULL-handle error code. Callers must hold globalMu.
func lastGlobalError() int {
	return int(C.sf_error(nil))
}

// LastError returns the error from the most recent failed open in this
// process, or nil if there is none.
func LastError() error {
	var code int
	withGlobalLock(func() {
		code = lastGlobalError()
	})
	if code == C.SF_ERR_NO_ERROR {
		return nil
	}
	return codeError("open", code, nil)
}
