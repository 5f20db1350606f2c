package tiffraster

import "fmt"

// Compression is the value of the Compression tag.
type Compression uint16

const (
	CompressionNone         Compression = 1
	CompressionCCITTRLE     Compression = 2
	CompressionCCITTGroup3  Compression = 3
	CompressionCCITTGroup4  Compression = 4
	CompressionLZW          Compression = 5
	CompressionOldJPEG      Compression = 6
	CompressionJPEG         Compression = 7
	CompressionAdobeDeflate Compression = 8
	CompressionPackBits     Compression = 32773
	CompressionDeflate      Compression = 32946
	CompressionZSTD         Compression = 50000
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionCCITTRLE:
		return "CCITTRLE"
	case CompressionCCITTGroup3:
		return "CCITTGroup3"
	case CompressionCCITTGroup4:
		return "CCITTGroup4"
	case CompressionLZW:
		return "LZW"
	case CompressionOldJPEG:
		return "OldJPEG"
	case CompressionJPEG:
		return "JPEG"
	case CompressionAdobeDeflate:
		return "AdobeDeflate"
	case CompressionPackBits:
		return "PackBits"
	case CompressionDeflate:
		return "Deflate"
	case CompressionZSTD:
		return "ZSTD"
	default:
		return fmt.Sprintf("Compression(%d)", uint16(c))
	}
}

// UnitInfo describes the strip or tile being decoded.
type UnitInfo struct {
	// Index of the strip or tile in the StripOffsets/TileOffsets array.
	Index int

	// Width and Height of the unit in pixels of its plane.
	// For strips Height is the number of rows in this strip.
	Width  int
	Height int

	// Compression is the scheme the unit is encoded with.
	Compression Compression

	// Photometric interpretation of the page, needed by bilevel codecs.
	Photometric Photometric

	// IFD of the page. Must not be modified.
	IFD *IFD
}

// CompressionDecoder decodes one compressed strip or tile.
//
// dst has the exact length the unit decompresses to; implementations must
// fill it completely or return an error (use IsTruncated to classify short input).
// Output beyond len(dst) is discarded.
type CompressionDecoder interface {
	Decode(dst, src []byte, unit UnitInfo) error
}

// CompressionDecoderFunc is an adapter to allow the use of ordinary functions as decoders.
type CompressionDecoderFunc func(dst, src []byte, unit UnitInfo) error

// Decode calls f(dst, src, unit).
func (f CompressionDecoderFunc) Decode(dst, src []byte, unit UnitInfo) error {
	return f(dst, src, unit)
}

// defaultDecoders returns the built-in decoders.
// OldJPEG and JPEG have no built-in decoder; register one in Options.Decoders.
func defaultDecoders() map[Compression]CompressionDecoder {
	deflate := deflateDecoder{}
	return map[Compression]CompressionDecoder{
		CompressionNone:         CompressionDecoderFunc(decodeNone),
		CompressionCCITTGroup3:  ccittDecoder{},
		CompressionCCITTGroup4:  ccittDecoder{},
		CompressionLZW:          NewLZWDecoder(LZWTIFF),
		CompressionAdobeDeflate: deflate,
		CompressionPackBits:     CompressionDecoderFunc(decodePackBits),
		CompressionDeflate:      deflate,
		CompressionZSTD:         zstdDecoder{},
	}
}

func decodeNone(dst, src []byte, unit UnitInfo) error {
	if n := copy(dst, src); n < len(dst) {
		return newTruncatedErrorf("unit %d: got %d bytes, expected %d", unit.Index, n, len(dst))
	}
	return nil
}
