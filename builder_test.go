package tiffraster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/hhrutter/lzw"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// In-memory TIFF writer used to build test streams.

type testField struct {
	tag uint16
	typ FieldType
	// One of []uint8, string, []uint16, []uint32, [][2]uint32, []int32, []float32 or []float64.
	values any
}

func shortField(tag Tag, v ...uint16) testField {
	return testField{tag: tag.ID, typ: FieldTypeShort, values: v}
}

func longField(tag Tag, v ...uint32) testField {
	return testField{tag: tag.ID, typ: FieldTypeLong, values: v}
}

func asciiField(tag Tag, s string) testField {
	return testField{tag: tag.ID, typ: FieldTypeASCII, values: s}
}

func rationalField(tag Tag, pairs ...uint32) testField {
	var v [][2]uint32
	for i := 0; i+1 < len(pairs); i += 2 {
		v = append(v, [2]uint32{pairs[i], pairs[i+1]})
	}
	return testField{tag: tag.ID, typ: FieldTypeRational, values: v}
}

func undefinedField(tag Tag, b []byte) testField {
	return testField{tag: tag.ID, typ: FieldTypeUndefined, values: b}
}

func (f testField) count() int {
	switch v := f.values.(type) {
	case []uint8:
		return len(v)
	case string:
		return len(v) + 1
	case []uint16:
		return len(v)
	case []uint32:
		return len(v)
	case [][2]uint32:
		return len(v)
	case []int32:
		return len(v)
	case []float32:
		return len(v)
	case []float64:
		return len(v)
	}
	panic(fmt.Sprintf("unsupported test field value %T", f.values))
}

func appendUint16(order binary.ByteOrder, b []byte, v uint16) []byte {
	var buf [2]byte
	order.PutUint16(buf[:], v)
	return append(b, buf[:]...)
}

func appendUint32(order binary.ByteOrder, b []byte, v uint32) []byte {
	var buf [4]byte
	order.PutUint32(buf[:], v)
	return append(b, buf[:]...)
}

func appendUint64(order binary.ByteOrder, b []byte, v uint64) []byte {
	var buf [8]byte
	order.PutUint64(buf[:], v)
	return append(b, buf[:]...)
}

func (f testField) encode(order binary.ByteOrder) []byte {
	var b []byte
	switch v := f.values.(type) {
	case []uint8:
		b = append(b, v...)
	case string:
		b = append(b, v...)
		b = append(b, 0)
	case []uint16:
		for _, x := range v {
			b = appendUint16(order, b, x)
		}
	case []uint32:
		for _, x := range v {
			b = appendUint32(order, b, x)
		}
	case [][2]uint32:
		for _, x := range v {
			b = appendUint32(order, b, x[0])
			b = appendUint32(order, b, x[1])
		}
	case []int32:
		for _, x := range v {
			b = appendUint32(order, b, uint32(x))
		}
	case []float32:
		for _, x := range v {
			b = appendUint32(order, b, math.Float32bits(x))
		}
	case []float64:
		for _, x := range v {
			b = appendUint64(order, b, math.Float64bits(x))
		}
	}
	return b
}

type testPage struct {
	fields []testField

	// units are the encoded strips or tiles, in offset table order.
	units [][]byte
	tiled bool

	omitByteCounts bool
}

// buildTIFF writes the pages as one TIFF stream: header, then for each page
// its unit data followed by its IFD and out-of-line values.
// The offset and byte count fields are added from the units.
func buildTIFF(order binary.ByteOrder, pages ...testPage) []byte {
	var buf bytes.Buffer
	if order == binary.LittleEndian {
		buf.WriteString("II")
	} else {
		buf.WriteString("MM")
	}
	buf.Write(appendUint16(order, nil, 42))
	buf.Write(appendUint32(order, nil, 0))

	patch := func(pos, v int) {
		order.PutUint32(buf.Bytes()[pos:], uint32(v))
	}

	nextPtrPos := 4
	for _, p := range pages {
		offsets := make([]uint32, len(p.units))
		counts := make([]uint32, len(p.units))
		for i, u := range p.units {
			offsets[i] = uint32(buf.Len())
			counts[i] = uint32(len(u))
			buf.Write(u)
		}
		if buf.Len()%2 == 1 {
			buf.WriteByte(0)
		}

		fields := append([]testField(nil), p.fields...)
		offsetsTag, countsTag := TagStripOffsets, TagStripByteCounts
		if p.tiled {
			offsetsTag, countsTag = TagTileOffsets, TagTileByteCounts
		}
		if len(p.units) > 0 {
			fields = append(fields, longField(offsetsTag, offsets...))
			if !p.omitByteCounts {
				fields = append(fields, longField(countsTag, counts...))
			}
		}
		sort.SliceStable(fields, func(i, j int) bool { return fields[i].tag < fields[j].tag })

		ifdOffset := buf.Len()
		patch(nextPtrPos, ifdOffset)

		dataOffset := ifdOffset + 2 + len(fields)*entrySize + 4
		var data bytes.Buffer

		buf.Write(appendUint16(order, nil, uint16(len(fields))))
		for _, f := range fields {
			raw := f.encode(order)
			buf.Write(appendUint16(order, nil, f.tag))
			buf.Write(appendUint16(order, nil, uint16(f.typ)))
			buf.Write(appendUint32(order, nil, uint32(f.count())))
			if len(raw) <= 4 {
				slot := make([]byte, 4)
				copy(slot, raw)
				buf.Write(slot)
			} else {
				buf.Write(appendUint32(order, nil, uint32(dataOffset+data.Len())))
				data.Write(raw)
				if data.Len()%2 == 1 {
					data.WriteByte(0)
				}
			}
		}
		nextPtrPos = buf.Len()
		buf.Write(appendUint32(order, nil, 0))
		buf.Write(data.Bytes())
	}

	return buf.Bytes()
}

// testRaster describes a page to build from uncompressed plane data.
type testRaster struct {
	width, height   int
	samplesPerPixel int
	bitsPerSample   int
	photometric     Photometric
	compression     Compression
	planar          bool
	predictor       int
	sampleFormat    SampleFormat

	// Strips of rowsPerStrip rows, or tiles if tileWidth is set.
	rowsPerStrip          int
	tileWidth, tileHeight int

	fields []testField
}

func (r testRaster) samplesInPlane() int {
	if r.planar {
		return 1
	}
	return r.samplesPerPixel
}

func (r testRaster) rowBytes(w int) int {
	return ceilDiv(w*r.samplesInPlane()*r.bitsPerSample, 8)
}

// page splits the planes into units, applies the predictor and
// compresses them with the raster's compression.
// Each plane holds height rows of rowBytes(width) bytes.
func (r testRaster) page(order binary.ByteOrder, planes ...[]byte) testPage {
	compression := r.compression
	if compression == 0 {
		compression = CompressionNone
	}
	p := testPage{
		tiled: r.tileWidth > 0,
		fields: []testField{
			longField(TagImageWidth, uint32(r.width)),
			longField(TagImageLength, uint32(r.height)),
			shortField(TagBitsPerSample, repeat16(uint16(r.bitsPerSample), r.samplesPerPixel)...),
			shortField(TagCompression, uint16(compression)),
			shortField(TagPhotometricInterpretation, uint16(r.photometric)),
			shortField(TagSamplesPerPixel, uint16(r.samplesPerPixel)),
		},
	}
	if r.planar {
		p.fields = append(p.fields, shortField(TagPlanarConfiguration, 2))
	}
	if r.predictor != 0 {
		p.fields = append(p.fields, shortField(TagPredictor, uint16(r.predictor)))
	}
	if r.sampleFormat != 0 {
		p.fields = append(p.fields, shortField(TagSampleFormat, repeat16(uint16(r.sampleFormat), r.samplesPerPixel)...))
	}
	if p.tiled {
		p.fields = append(p.fields,
			longField(TagTileWidth, uint32(r.tileWidth)),
			longField(TagTileLength, uint32(r.tileHeight)),
		)
	} else {
		rps := r.rowsPerStrip
		if rps == 0 {
			rps = r.height
		}
		p.fields = append(p.fields, longField(TagRowsPerStrip, uint32(rps)))
	}
	p.fields = append(p.fields, r.fields...)

	for _, plane := range planes {
		for _, u := range r.split(plane) {
			if r.predictor == predictorHorizontal {
				uw := r.width
				if p.tiled {
					uw = r.tileWidth
				}
				applyPredictor(u, r.samplesInPlane(), uw, r.bitsPerSample/8, order)
			}
			p.units = append(p.units, encodeUnit(compression, u))
		}
	}

	return p
}

func (r testRaster) split(plane []byte) [][]byte {
	rowBytes := r.rowBytes(r.width)
	var units [][]byte

	if r.tileWidth == 0 {
		rps := r.rowsPerStrip
		if rps == 0 {
			rps = r.height
		}
		for y := 0; y < r.height; y += rps {
			end := min(y+rps, r.height)
			units = append(units, append([]byte(nil), plane[y*rowBytes:end*rowBytes]...))
		}
		return units
	}

	tileRowBytes := r.rowBytes(r.tileWidth)
	for ty := 0; ty < r.height; ty += r.tileHeight {
		for tx := 0; tx < r.width; tx += r.tileWidth {
			tile := make([]byte, tileRowBytes*r.tileHeight)
			xStart := tx / r.tileWidth * tileRowBytes
			for row := range r.tileHeight {
				y := ty + row
				if y >= r.height || xStart >= rowBytes {
					continue
				}
				src := plane[y*rowBytes+xStart : y*rowBytes+min(xStart+tileRowBytes, rowBytes)]
				copy(tile[row*tileRowBytes:], src)
			}
			units = append(units, tile)
		}
	}
	return units
}

// applyPredictor applies horizontal differencing to rows of width pixels.
func applyPredictor(b []byte, samples, width, bps int, order binary.ByteOrder) {
	stride := width * samples * bps
	for y := 0; y+stride <= len(b); y += stride {
		row := b[y : y+stride]
		for i := len(row) - bps; i >= samples*bps; i -= bps {
			j := i - samples*bps
			switch bps {
			case 1:
				row[i] -= row[j]
			case 2:
				order.PutUint16(row[i:], order.Uint16(row[i:])-order.Uint16(row[j:]))
			case 4:
				order.PutUint32(row[i:], order.Uint32(row[i:])-order.Uint32(row[j:]))
			case 8:
				order.PutUint64(row[i:], order.Uint64(row[i:])-order.Uint64(row[j:]))
			}
		}
	}
}

func repeat16(v uint16, n int) []uint16 {
	s := make([]uint16, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func encodeUnit(c Compression, b []byte) []byte {
	switch c {
	case CompressionNone:
		return b
	case CompressionPackBits:
		return encodePackBits(b)
	case CompressionLZW:
		return encodeLZW(b, true)
	case CompressionDeflate, CompressionAdobeDeflate:
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		w.Write(b)
		w.Close()
		return buf.Bytes()
	case CompressionZSTD:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			panic(err)
		}
		defer enc.Close()
		return enc.EncodeAll(b, nil)
	}
	panic(fmt.Sprintf("no test encoder for %s", c))
}

// encodeLZW compresses b. With earlyChange set the code width grows
// the way TIFF writers do it.
func encodeLZW(b []byte, earlyChange bool) []byte {
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, earlyChange)
	if _, err := w.Write(b); err != nil {
		panic(err)
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// encodePackBits uses literal runs of up to 128 bytes and replicate
// runs for 3 or more equal bytes.
func encodePackBits(b []byte) []byte {
	var out []byte
	for i := 0; i < len(b); {
		run := 1
		for i+run < len(b) && run < 128 && b[i+run] == b[i] {
			run++
		}
		if run >= 3 {
			out = append(out, byte(int8(1-run)), b[i])
			i += run
			continue
		}
		start := i
		for i < len(b) && i-start < 128 {
			if i+2 < len(b) && b[i] == b[i+1] && b[i] == b[i+2] {
				break
			}
			i++
		}
		out = append(out, byte(i-start-1))
		out = append(out, b[start:i]...)
	}
	return out
}

// packSamples packs interleaved samples into the planes of r.
func packSamples(samples []uint32, r testRaster, order binary.ByteOrder) [][]byte {
	spp := r.samplesPerPixel
	numPlanes := 1
	if r.planar {
		numPlanes = spp
	}
	rowBytes := r.rowBytes(r.width)
	planes := make([][]byte, numPlanes)
	for p := range planes {
		buf := make([]byte, rowBytes*r.height)
		for y := range r.height {
			var vals []uint32
			for x := range r.width {
				base := (y*r.width + x) * spp
				if r.planar {
					vals = append(vals, samples[base+p])
				} else {
					vals = append(vals, samples[base:base+spp]...)
				}
			}
			packRow(buf[y*rowBytes:(y+1)*rowBytes], vals, r.bitsPerSample, order)
		}
		planes[p] = buf
	}
	return planes
}

func packRow(dst []byte, vals []uint32, bits int, order binary.ByteOrder) {
	switch bits {
	case 8:
		for i, v := range vals {
			dst[i] = byte(v)
		}
	case 16:
		for i, v := range vals {
			order.PutUint16(dst[i*2:], uint16(v))
		}
	case 24:
		for i, v := range vals {
			b := dst[i*3 : i*3+3]
			if order == binary.LittleEndian {
				b[0], b[1], b[2] = byte(v), byte(v>>8), byte(v>>16)
			} else {
				b[0], b[1], b[2] = byte(v>>16), byte(v>>8), byte(v)
			}
		}
	case 32:
		for i, v := range vals {
			order.PutUint32(dst[i*4:], v)
		}
	default:
		var acc uint64
		var n, pos int
		for _, v := range vals {
			acc = acc<<bits | uint64(v)&(1<<bits-1)
			n += bits
			for n >= 8 {
				dst[pos] = byte(acc >> (n - 8))
				pos++
				n -= 8
			}
		}
		if n > 0 {
			dst[pos] = byte(acc << (8 - n))
		}
	}
}

// randomSamples returns n samples of the given bit depth.
func randomSamples(seed int64, n, bits int) []uint32 {
	rng := rand.New(rand.NewSource(seed))
	mask := uint64(1)<<bits - 1
	s := make([]uint32, n)
	for i := range s {
		s[i] = uint32(uint64(rng.Int63()) & mask)
	}
	return s
}
