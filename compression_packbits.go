package tiffraster

// decodePackBits decodes the PackBits-compressed data in src into dst.
//
// The PackBits compression format is described in section 9 (p. 42)
// of TIFF 6.0. Decoding stops when dst is full; a run that would
// overflow dst is truncated.
func decodePackBits(dst, src []byte, unit UnitInfo) error {
	var i, j int
	for j < len(dst) {
		if i >= len(src) {
			return newTruncatedErrorf("packbits: unit %d: input exhausted after %d of %d bytes", unit.Index, j, len(dst))
		}
		code := int(int8(src[i]))
		i++
		switch {
		case code >= 0:
			n := code + 1
			if i+n > len(src) {
				n = len(src) - i
			}
			j += copy(dst[j:], src[i:i+n])
			i += n
		case code == -128:
			// No-op.
		default:
			if i >= len(src) {
				return newTruncatedErrorf("packbits: unit %d: missing repeat byte", unit.Index)
			}
			b := src[i]
			i++
			n := min(1-code, len(dst)-j)
			for k := range n {
				dst[j+k] = b
			}
			j += n
		}
	}
	return nil
}
