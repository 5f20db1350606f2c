package tiffraster

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Reads of untrusted lengths are done in chunks of this size so a corrupt
// byte count does not allocate a huge slice before the read fails.
const maxChunkSize = 10 << 20 // 10M

var errShortRead = errors.New("short read")

func newStreamReader(r io.ReadSeeker, byteOrder binary.ByteOrder) *streamReader {
	return &streamReader{
		r:         r,
		byteOrder: byteOrder,
	}
}

// streamReader is a wrapper around a ReadSeeker that provides methods to read binary data.
// Read failures are recorded in readErr and abort the current operation with a panic(errStop);
// the public entry points recover from that.
// Note that this is not thread safe.
type streamReader struct {
	r         io.ReadSeeker
	byteOrder binary.ByteOrder

	buf []byte

	readErr error
	size    int64
}

func (e *streamReader) streamErr() error {
	return e.readErr
}

func (e *streamReader) allocateBuf(length int) {
	if length > cap(e.buf) {
		e.buf = make([]byte, length)
	}
}

// length returns the total length of the stream.
func (e *streamReader) length() int64 {
	if e.size > 0 {
		return e.size
	}
	pos := e.pos()
	n, err := e.r.Seek(0, io.SeekEnd)
	if err != nil {
		e.stop(err)
	}
	e.seek(pos)
	e.size = n
	return n
}

func (e *streamReader) pos() int64 {
	n, err := e.r.Seek(0, io.SeekCurrent)
	if err != nil {
		e.stop(err)
	}
	return n
}

func (e *streamReader) read2() uint16 {
	const n = 2
	e.readNIntoBuf(n)
	return e.byteOrder.Uint16(e.buf[:n])
}

func (e *streamReader) read4() uint32 {
	const n = 4
	e.readNIntoBuf(n)
	return e.byteOrder.Uint32(e.buf[:n])
}

// readBytesVolatile reads a slice of bytes from the stream
// which is not guaranteed to be valid after the next read.
func (e *streamReader) readBytesVolatile(n int) []byte {
	e.readNIntoBuf(n)
	return e.buf[:n]
}

// readBytesAt reads n bytes at the absolute offset off into a newly allocated slice.
// The current position is preserved.
func (e *streamReader) readBytesAt(off int64, n int64) []byte {
	var b []byte
	e.preservePos(func() error {
		b = e.readBytesAtE(off, n)
		return nil
	})
	return b
}

func (e *streamReader) readBytesAtE(off int64, n int64) []byte {
	if n < 0 || off < 0 {
		e.stop(newFormatErrorf("invalid byte range %d+%d", off, n))
	}
	if end := off + n; end < off || end > e.length() {
		e.stop(newTruncatedErrorf("byte range %d+%d exceeds stream length %d", off, n, e.length()))
	}
	e.seek(off)

	if n < maxChunkSize {
		b := make([]byte, n)
		if _, err := io.ReadFull(e.r, b); err != nil {
			e.stop(err)
		}
		return b
	}

	var b []byte
	for n > 0 {
		next := min(n, maxChunkSize)
		b = append(b, make([]byte, next)...)
		if _, err := io.ReadFull(e.r, b[len(b)-int(next):]); err != nil {
			e.stop(err)
		}
		n -= next
	}
	return b
}

func (e *streamReader) readNIntoBuf(n int) {
	e.allocateBuf(n)
	n2, err := io.ReadFull(e.r, e.buf[:n])
	if err != nil {
		e.stop(err)
	}
	if n != n2 {
		e.stop(errShortRead)
	}
}

func (e *streamReader) preservePos(f func() error) error {
	pos := e.pos()
	err := f()
	e.seek(pos)
	return err
}

func (e *streamReader) seek(pos int64) {
	if pos < 0 {
		e.stop(newFormatErrorf("negative offset %d", pos))
	}
	_, err := e.r.Seek(pos, io.SeekStart)
	if err != nil {
		e.stop(err)
	}
}

// stop records err and aborts the current operation.
// End of stream is reported as truncated data.
func (e *streamReader) stop(err error) {
	if err == io.EOF || err == io.ErrUnexpectedEOF || err == errShortRead {
		err = newTruncatedError(fmt.Errorf("unexpected end of stream: %w", err))
	}
	if err != nil {
		e.readErr = err
	}
	panic(errStop)
}

// protect runs f and converts a stop into the recorded read error.
func (e *streamReader) protect(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errFromRecover(r, e.streamErr)
			e.readErr = nil
		}
	}()
	return f()
}
