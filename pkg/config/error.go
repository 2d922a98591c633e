package config

import "errors"

var (
	ErrDeviceIO    = errors.New("device I/O error")
	ErrPositioning = errors.New("tape head landed at an unexpected position")

	ErrNoIndexFound         = errors.New("no index could be located on the tape")
	ErrStructuralInvalid    = errors.New("index violates a structural invariant")
	ErrFilemarkLimitReached = errors.New("filemark not found within the block limit")

	ErrInsufficientCapacity = errors.New("insufficient remaining tape capacity")

	ErrNotFound      = errors.New("no such file or directory on the tape")
	ErrNotAFile      = errors.New("path refers to a directory, not a file")
	ErrNotADirectory = errors.New("path refers to a file, not a directory")

	ErrBlockTooLarge = errors.New("on-tape block is larger than the read buffer")

	ErrHashMismatch = errors.New("restored content does not match the recorded hash")

	ErrUnsupportedPlatform = errors.New("tape pass-through is not supported on this platform")
)
