package tiffraster

import "fmt"

// frame is the decompressed sample data of a page with the predictor
// reversed. Each plane occupies one contiguous region of data,
// rows are padded to a byte boundary.
type frame struct {
	data         []byte
	planeOffsets []int
}

// assembler reads, decompresses and places the strips or tiles of one page.
type assembler struct {
	*streamReader
	ifd      *IFD
	layout   *layout
	decoders map[Compression]CompressionDecoder
	warnf    func(string, ...any)
}

func (a *assembler) assemble() (*frame, error) {
	l := a.layout
	dec, found := a.decoders[l.compression]
	if !found || dec == nil {
		return nil, newUnsupportedErrorf("compression %s", l.compression)
	}

	fr := &frame{data: make([]byte, l.frameSize())}
	for _, p := range l.planes {
		fr.planeOffsets = append(fr.planeOffsets, p.offset)
	}

	for _, p := range l.planes {
		if err := a.assemblePlane(fr, p, dec); err != nil {
			return nil, err
		}
	}

	return fr, nil
}

func (a *assembler) assemblePlane(fr *frame, p plane, dec CompressionDecoder) error {
	l := a.layout

	if !l.tiled {
		stripBytes := p.byteRows(p.unitHeight) * p.rowBytes(p.width)
		for _, u := range l.units {
			if u.plane != p.index {
				continue
			}
			buf, err := a.decodeUnit(dec, u, p)
			if err != nil {
				return err
			}
			copy(fr.data[p.offset+u.row*stripBytes:], buf)
		}
		return nil
	}

	// Tiles are placed in a raster that is a whole number of tiles in
	// each direction and then cropped to the plane size.
	across := ceilDiv(p.width, p.unitWidth)
	down := ceilDiv(p.height, p.unitHeight)
	tileRowBytes := p.rowBytes(p.unitWidth)
	tileByteRows := p.byteRows(p.unitHeight)
	if across > 1 && ceilDiv(p.unitWidth, p.blockW)*p.blockSamples*p.bits%8 != 0 {
		return newUnsupportedErrorf("tile width %d does not end on a byte boundary", p.unitWidth)
	}
	stride := across * tileRowBytes
	scratch := make([]byte, stride*down*tileByteRows)

	for _, u := range l.units {
		if u.plane != p.index {
			continue
		}
		buf, err := a.decodeUnit(dec, u, p)
		if err != nil {
			return err
		}
		for r := range tileByteRows {
			start := (u.row*tileByteRows+r)*stride + u.col*tileRowBytes
			copy(scratch[start:start+tileRowBytes], buf[r*tileRowBytes:])
		}
	}

	rowBytes := p.rowBytes(p.width)
	for r := range p.byteRows(p.height) {
		start := p.offset + r*rowBytes
		copy(fr.data[start:start+rowBytes], scratch[r*stride:])
	}

	return nil
}

// decodeUnit reads and decompresses one strip or tile and reverses the predictor.
func (a *assembler) decodeUnit(dec CompressionDecoder, u unit, p plane) ([]byte, error) {
	l := a.layout
	dst := make([]byte, u.decodedSize(p))

	if u.offset == 0 && u.byteCount == 0 {
		// Sparse file, the unit was never written.
		a.warnf("unit %d has no data, filling with zeros", u.index)
		return dst, nil
	}

	var src []byte
	if err := a.protect(func() error {
		src = a.readBytesAt(u.offset, u.byteCount)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("unit %d: %w", u.index, err)
	}

	if l.fillOrder == 2 {
		reverseBits(src)
	}

	info := UnitInfo{
		Index:       u.index,
		Width:       u.width,
		Height:      u.height,
		Compression: l.compression,
		Photometric: l.photometric,
		IFD:         a.ifd,
	}
	if err := dec.Decode(dst, src, info); err != nil {
		if !IsTruncated(err) && !IsUnsupported(err) && !IsFormatError(err) {
			err = newTruncatedErrorf("%s: unit %d: %w", l.compression, u.index, err)
		}
		return nil, err
	}

	width := ceilDiv(u.width, p.blockW)
	if err := reversePredictor(dst, l.predictor, p.blockSamples, width, p.byteRows(u.height), p.bits, false, a.byteOrder); err != nil {
		return nil, err
	}

	return dst, nil
}
