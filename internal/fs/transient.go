package fs

import (
	"errors"
	"syscall"
)

// transientErrnos are worth another attempt; anything else fails at once.
var transientErrnos = []syscall.Errno{
	syscall.EAGAIN,
	syscall.EBUSY,
	syscall.EINTR,
	syscall.ETIMEDOUT,
}

func isTransient(err error) bool {
	for _, errno := range transientErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
