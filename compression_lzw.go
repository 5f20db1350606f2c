package tiffraster

// TIFF-compatible LZW decoder.
//
// TIFF LZW differs from the GIF/PDF flavour handled by Go's compress/lzw:
// the code width grows one code early, when the next code to be assigned
// would be the last code of the current width (TIFF 6.0, section 13).
// Streams written with the generic convention decode with LZWGeneric.

const (
	lzwClearCode = 256
	lzwEOICode   = 257
	lzwFirstCode = 258
	lzwMinWidth  = 9
	lzwMaxWidth  = 12
	lzwTableSize = 1 << lzwMaxWidth
)

// LZWConvention selects when the LZW code width grows.
type LZWConvention int

const (
	// LZWTIFF grows the code width when the table reaches 2^width-1 entries.
	// This is what TIFF writers produce and is the default.
	LZWTIFF LZWConvention = iota
	// LZWGeneric grows the code width when the table reaches 2^width entries,
	// as in GIF and most other LZW implementations.
	LZWGeneric
)

// NewLZWDecoder returns an MSB-first LZW decoder using the given code width convention.
func NewLZWDecoder(convention LZWConvention) CompressionDecoder {
	return lzwDecoder{earlyChange: convention == LZWTIFF}
}

type lzwDecoder struct {
	earlyChange bool
}

type lzwBits struct {
	src []byte
	pos int
	acc uint32
	n   uint
}

// read returns the next width bits, MSB first.
func (b *lzwBits) read(width uint) (int, bool) {
	for b.n < width {
		if b.pos >= len(b.src) {
			return 0, false
		}
		b.acc = b.acc<<8 | uint32(b.src[b.pos])
		b.pos++
		b.n += 8
	}
	code := int(b.acc>>(b.n-width)) & (1<<width - 1)
	b.n -= width
	return code, true
}

func (d lzwDecoder) Decode(dst, src []byte, unit UnitInfo) error {
	var (
		prefix  [lzwTableSize]uint16
		suffix  [lzwTableSize]byte
		lengths [lzwTableSize]uint16
	)
	for i := range 256 {
		suffix[i] = byte(i)
		lengths[i] = 1
	}

	// writeString writes the string for code at dst[j:], dropping bytes past
	// the end of dst, and returns the string length and its first byte.
	writeString := func(code, j int) (int, byte) {
		n := int(lengths[code])
		pos := j + n - 1
		c := code
		for k := n - 1; k >= 0; k-- {
			if pos < len(dst) {
				dst[pos] = suffix[c]
			}
			pos--
			if k > 0 {
				c = int(prefix[c])
			}
		}
		return n, suffix[c]
	}

	bits := &lzwBits{src: src}
	width := uint(lzwMinWidth)
	next := lzwFirstCode
	prev := -1
	j := 0

	for j < len(dst) {
		code, ok := bits.read(width)
		if !ok {
			break
		}
		if code == lzwClearCode {
			width = lzwMinWidth
			next = lzwFirstCode
			prev = -1
			continue
		}
		if code == lzwEOICode {
			break
		}
		if prev == -1 {
			if code > 255 {
				return newTruncatedErrorf("lzw: unit %d: first code after clear is not a literal: %d", unit.Index, code)
			}
			dst[j] = byte(code)
			j++
			prev = code
			continue
		}

		var n int
		var first byte
		switch {
		case code < next:
			n, first = writeString(code, j)
		case code == next:
			// The code is not in the table yet: prev's string plus its own first byte.
			n, first = writeString(prev, j)
			if j+n < len(dst) {
				dst[j+n] = first
			}
			n++
		default:
			return newTruncatedErrorf("lzw: unit %d: invalid code %d, next is %d", unit.Index, code, next)
		}
		j = min(j+n, len(dst))

		if next < lzwTableSize {
			prefix[next] = uint16(prev)
			suffix[next] = first
			lengths[next] = lengths[prev] + 1
			next++
		}

		limit := 1 << width
		if d.earlyChange {
			limit--
		}
		if next >= limit && width < lzwMaxWidth {
			width++
		}

		prev = code
	}

	if j < len(dst) {
		return newTruncatedErrorf("lzw: unit %d: got %d bytes, expected %d", unit.Index, j, len(dst))
	}
	return nil
}
