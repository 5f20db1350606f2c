package tiffraster

import (
	"bytes"
	"errors"
	"io"

	"golang.org/x/image/ccitt"
)

// ccittDecoder decodes bilevel CCITT Group 3 and Group 4 units into
// byte aligned rows of 1 bit samples. Bit order is always MSB first here,
// FillOrder is applied to the compressed bytes before decoding.
type ccittDecoder struct{}

func (ccittDecoder) Decode(dst, src []byte, unit UnitInfo) error {
	sf := ccitt.Group3
	if unit.Compression == CompressionCCITTGroup4 {
		sf = ccitt.Group4
	}
	opts := &ccitt.Options{
		// Make the output bits follow the photometric interpretation of the page.
		Invert: unit.Photometric == PhotometricWhiteIsZero,
	}
	r := ccitt.NewReader(bytes.NewReader(src), ccitt.MSB, sf, unit.Width, unit.Height, opts)
	if _, err := io.ReadFull(r, dst); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return newTruncatedErrorf("ccitt: unit %d: stream ended before %d bytes", unit.Index, len(dst))
		}
		return newTruncatedErrorf("ccitt: unit %d: %w", unit.Index, err)
	}
	return nil
}
