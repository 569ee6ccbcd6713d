package types

import (
	"errors"
	"strings"
)

// ErrUndecoded is returned by Decoded when no payload is available.
var ErrUndecoded = errors.New("file has not been decoded")

// DecodeFunc produces the decoded payload of a file on demand.
type DecodeFunc func() (Decoded, error)

// File is one typed entry inside a pack. The decoded payload is produced
// lazily and cached; decode failures are cached too, so a broken file is
// attempted once per run, not once per check.
//
// A File is not safe for concurrent decoding; the engine guarantees each
// file is touched by a single task at a time.
type File struct {
	path    string
	kind    FileKind
	decoder DecodeFunc

	decoded   Decoded
	decodeErr error
	attempted bool
}

// NewFile creates a file whose payload comes from the given decoder.
func NewFile(path string, kind FileKind, decoder DecodeFunc) *File {
	return &File{path: path, kind: kind, decoder: decoder}
}

// NewDecodedFile creates a file with an already-decoded payload.
func NewDecodedFile(path string, kind FileKind, payload Decoded) *File {
	return &File{path: path, kind: kind, decoded: payload, attempted: true}
}

// Path returns the file's path inside the container, '/'-separated.
func (f *File) Path() string {
	return f.path
}

// PathSplit returns the path segments.
func (f *File) PathSplit() []string {
	return strings.Split(f.path, "/")
}

// FileName returns the last path segment.
func (f *File) FileName() string {
	segments := f.PathSplit()

	return segments[len(segments)-1]
}

// Kind returns the file's format kind.
func (f *File) Kind() FileKind {
	return f.kind
}

// Decode materializes the payload. With force set, a fresh decode runs even
// if a cached payload or a cached failure exists; without it, the first
// outcome sticks.
func (f *File) Decode(force bool) error {
	if f.attempted && !force {
		return f.decodeErr
	}

	if f.decoder == nil {
		// Nothing to re-run; keep whatever payload the file was built with.
		if f.decoded == nil && f.decodeErr == nil {
			f.decodeErr = ErrUndecoded
		}

		f.attempted = true

		return f.decodeErr
	}

	f.decoded, f.decodeErr = f.decoder()
	f.attempted = true

	return f.decodeErr
}

// Decoded returns the cached payload, decoding lazily on first access.
func (f *File) Decoded() (Decoded, error) {
	if !f.attempted {
		if err := f.Decode(false); err != nil {
			return nil, err
		}
	}

	if f.decodeErr != nil {
		return nil, f.decodeErr
	}

	if f.decoded == nil {
		return nil, ErrUndecoded
	}

	return f.decoded, nil
}
