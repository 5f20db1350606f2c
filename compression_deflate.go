package tiffraster

import (
	"bytes"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// deflateDecoder handles both Deflate (32946) and Adobe Deflate (8);
// they are the same zlib wire format under two tag values.
type deflateDecoder struct{}

func (deflateDecoder) Decode(dst, src []byte, unit UnitInfo) error {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return newTruncatedErrorf("deflate: unit %d: %w", unit.Index, err)
	}
	defer zr.Close()
	if _, err := io.ReadFull(zr, dst); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return newTruncatedErrorf("deflate: unit %d: stream ended before %d bytes", unit.Index, len(dst))
		}
		return newTruncatedErrorf("deflate: unit %d: %w", unit.Index, err)
	}
	return nil
}

var zstdDecoderPool = &sync.Pool{
	New: func() any {
		dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			panic(err)
		}
		return dec
	},
}

// zstdDecoder handles the ZSTD compression scheme registered by libtiff (50000).
type zstdDecoder struct{}

func (zstdDecoder) Decode(dst, src []byte, unit UnitInfo) error {
	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)

	b, err := dec.DecodeAll(src, make([]byte, 0, len(dst)))
	if err != nil {
		return newTruncatedErrorf("zstd: unit %d: %w", unit.Index, err)
	}
	if n := copy(dst, b); n < len(dst) {
		return newTruncatedErrorf("zstd: unit %d: got %d bytes, expected %d", unit.Index, n, len(dst))
	}
	return nil
}
