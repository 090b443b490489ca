package prerefresh

import "errors"

var (
	// ErrClosed reports that the executor has been shut down. Submit does
	// not return it: a submission after Shutdown makes Submit return false.
	ErrClosed = errors.New("prerefresh: executor is closed")

	// ErrShutdownGraceExceeded is returned by Shutdown when running tasks
	// did not finish within the configured grace period; their contexts
	// were forcibly canceled.
	ErrShutdownGraceExceeded = errors.New("prerefresh: shutdown grace period exceeded, tasks forcibly canceled")
)
