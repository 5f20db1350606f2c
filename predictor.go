package tiffraster

import "encoding/binary"

const (
	predictorNone       = 1
	predictorHorizontal = 2
	predictorFloatingPt = 3
)

// reversePredictor undoes the differencing predictor in one decoded unit.
//
// buf holds rows of width pixels with samples interleaved samples each.
// If planar is set, buf instead holds samples consecutive planes of
// width x rows single sample pixels.
func reversePredictor(buf []byte, predictor, samples, width, rows, bitsPerSample int, planar bool, order binary.ByteOrder) error {
	switch predictor {
	case predictorNone:
		return nil
	case predictorHorizontal:
	case predictorFloatingPt:
		return newUnsupportedErrorf("floating point predictor")
	default:
		return newUnsupportedErrorf("predictor %d", predictor)
	}

	if bitsPerSample%8 != 0 {
		return newUnsupportedErrorf("horizontal predictor with %d bit samples", bitsPerSample)
	}
	bps := bitsPerSample / 8

	if planar {
		size := width * rows * bps
		if len(buf) < size*samples {
			return newTruncatedErrorf("predictor: buffer of %d bytes, expected %d", len(buf), size*samples)
		}
		for i := range samples {
			if err := reverseHorizontal(buf[i*size:(i+1)*size], 1, width, rows, bps, order); err != nil {
				return err
			}
		}
		return nil
	}

	return reverseHorizontal(buf, samples, width, rows, bps, order)
}

// reverseHorizontal accumulates each sample onto the same sample of the
// previous pixel in the row. Arithmetic wraps at the sample size.
func reverseHorizontal(buf []byte, samples, width, rows, bps int, order binary.ByteOrder) error {
	stride := width * samples * bps
	if len(buf) < stride*rows {
		return newTruncatedErrorf("predictor: buffer of %d bytes, expected %d", len(buf), stride*rows)
	}

	for y := range rows {
		row := buf[y*stride : (y+1)*stride]
		switch bps {
		case 1:
			for i := samples; i < len(row); i++ {
				row[i] += row[i-samples]
			}
		case 2:
			for i := samples * 2; i < len(row); i += 2 {
				order.PutUint16(row[i:], order.Uint16(row[i:])+order.Uint16(row[i-samples*2:]))
			}
		case 4:
			for i := samples * 4; i < len(row); i += 4 {
				order.PutUint32(row[i:], order.Uint32(row[i:])+order.Uint32(row[i-samples*4:]))
			}
		case 8:
			for i := samples * 8; i < len(row); i += 8 {
				order.PutUint64(row[i:], order.Uint64(row[i:])+order.Uint64(row[i-samples*8:]))
			}
		default:
			return newUnsupportedErrorf("horizontal predictor with %d byte samples", bps)
		}
	}
	return nil
}
