package chunk

import "errors"

var (
	// ErrOutOfRange is returned by accessors given coordinates outside the
	// chunk or section extents, and by NewSection for a bad section index.
	ErrOutOfRange = errors.New("chunk: coordinate out of range")

	// ErrInvalidSection is returned by block accessors on a section that has
	// not been assigned a y index.
	ErrInvalidSection = errors.New("chunk: section has no y index")

	// ErrInvalidChannel is returned by Section.Get and Section.Set for a
	// channel other than the four defined ones.
	ErrInvalidChannel = errors.New("chunk: unknown channel")

	// ErrFormat is returned when a serialized node is structurally unusable.
	ErrFormat = errors.New("chunk: malformed node")
)
