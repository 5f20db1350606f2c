package tiffraster

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat is the kind of error returned for streams that are not valid TIFF,
	// e.g. a bad byte order mark, a missing required tag or unresolvable geometry.
	ErrFormat = errors.New("tiffraster: invalid format")

	// ErrUnsupported is the kind of error returned for valid but unimplemented features,
	// e.g. an unknown predictor, photometric interpretation or compression scheme.
	ErrUnsupported = errors.New("tiffraster: unsupported feature")

	// ErrTruncated is the kind of error returned when strip or tile data is
	// missing from the stream, is corrupt, or a codec produces fewer bytes than expected.
	ErrTruncated = errors.New("tiffraster: truncated data")

	// Internal error to signal that we should stop any further processing.
	errStop = errors.New("stop")
)

// IsFormatError reports whether err is, or wraps, a format error.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsUnsupported reports whether err is, or wraps, an unsupported feature error.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupported)
}

// IsTruncated reports whether err is, or wraps, a truncated data error.
func IsTruncated(err error) bool {
	return errors.Is(err, ErrTruncated)
}

type kindError struct {
	kind error
	err  error
}

func (e *kindError) Error() string {
	return fmt.Sprintf("%s: %s", e.kind, e.err)
}

func (e *kindError) Is(target error) bool {
	return target == e.kind
}

func (e *kindError) Unwrap() error {
	return e.err
}

func newFormatError(err error) error {
	if IsFormatError(err) {
		return err
	}
	return &kindError{kind: ErrFormat, err: err}
}

func newFormatErrorf(format string, args ...any) error {
	return newFormatError(fmt.Errorf(format, args...))
}

func newUnsupportedErrorf(format string, args ...any) error {
	return &kindError{kind: ErrUnsupported, err: fmt.Errorf(format, args...)}
}

func newTruncatedError(err error) error {
	if IsTruncated(err) {
		return err
	}
	return &kindError{kind: ErrTruncated, err: err}
}

func newTruncatedErrorf(format string, args ...any) error {
	return newTruncatedError(fmt.Errorf(format, args...))
}

// PageError is a failure confined to one page of a multi-page stream.
type PageError struct {
	// Page is the zero-based page index in chain order.
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %s", e.Page, e.Err)
}

func (e *PageError) Unwrap() error {
	return e.Err
}

// errFromRecover converts a recovered panic into an error.
// errStop is replaced with the read error recorded by the stream reader.
func errFromRecover(r any, readErr func() error) error {
	if r == nil {
		return nil
	}
	err, ok := r.(error)
	if !ok {
		return fmt.Errorf("unknown panic: %v", r)
	}
	if err == errStop {
		if err2 := readErr(); err2 != nil {
			return err2
		}
		return newTruncatedErrorf("read stopped")
	}
	return err
}
