package tiffraster

import (
	"fmt"
	"image/color"
	"math"
)

// ColorModel is the color model of decoded pixels.
type ColorModel int

const (
	ColorModelSRGB ColorModel = iota
	ColorModelDeviceGray
	ColorModelDeviceCMYK
)

func (m ColorModel) String() string {
	switch m {
	case ColorModelSRGB:
		return "sRGB"
	case ColorModelDeviceGray:
		return "DeviceGray"
	case ColorModelDeviceCMYK:
		return "DeviceCMYK"
	default:
		return fmt.Sprintf("ColorModel(%d)", int(m))
	}
}

// ColorSpace describes the colors of a PixelBuffer.
type ColorSpace struct {
	Model ColorModel

	// ICCProfile is the embedded ICC profile, if any. It is passed through as is.
	ICCProfile []byte
}

// PixelBuffer is one decoded page.
type PixelBuffer struct {
	// Width and Height are always ImageWidth and ImageLength of the page.
	Width  int
	Height int

	Photometric Photometric
	ColorSpace  ColorSpace

	// Samples is one of *IndexedSamples, *IntSamples or *FloatSamples.
	Samples Samples
}

// Samples holds the pixel data of a PixelBuffer.
// The set of implementations is closed.
type Samples interface {
	isSamples()
}

// IndexedSamples is palette color data.
type IndexedSamples struct {
	BitsPerIndex int

	// Indices holds one palette index per pixel, row by row.
	Indices []uint16

	// Palette has 2^BitsPerIndex opaque entries.
	Palette []color.RGBA
}

// IntSamples is integer sample data, interleaved and row by row.
//
// Values are stored as read: unsigned values in the low BitsPerSample bits,
// signed values sign extended to the container. Exactly one of the Pix slices
// is set, the smallest that holds BitsPerSample bits.
// WhiteIsZero gray is inverted so 0 is always black.
type IntSamples struct {
	SamplesPerPixel int
	BitsPerSample   int
	Signed          bool

	// Alpha describes the sample following the color samples, if any.
	Alpha AlphaMode

	Pix8  []uint8
	Pix16 []uint16
	Pix32 []uint32
}

// Uint returns the i'th sample in its container.
func (s *IntSamples) Uint(i int) uint32 {
	switch {
	case s.Pix8 != nil:
		return uint32(s.Pix8[i])
	case s.Pix16 != nil:
		return uint32(s.Pix16[i])
	default:
		return s.Pix32[i]
	}
}

// Len returns the number of samples.
func (s *IntSamples) Len() int {
	return max(len(s.Pix8), len(s.Pix16), len(s.Pix32))
}

// FloatSamples is floating point sample data, interleaved and row by row.
// 16, 24 and 32 bit sources are widened to Pix32, 64 bit sources are stored in Pix64.
type FloatSamples struct {
	SamplesPerPixel int
	BitsPerSample   int
	Alpha           AlphaMode

	Pix32 []float32
	Pix64 []float64
}

// Float64 returns the i'th sample.
func (s *FloatSamples) Float64(i int) float64 {
	if s.Pix64 != nil {
		return s.Pix64[i]
	}
	return float64(s.Pix32[i])
}

func (*IndexedSamples) isSamples() {}
func (*IntSamples) isSamples()     {}
func (*FloatSamples) isSamples()   {}

// reconstructor turns an assembled frame into a PixelBuffer.
type reconstructor struct {
	ifd    *IFD
	layout *layout
	frame  *frame
}

func (rc *reconstructor) reconstruct() (*PixelBuffer, error) {
	l := rc.layout
	pb := &PixelBuffer{
		Width:       l.width,
		Height:      l.height,
		Photometric: l.photometric,
	}
	if f, found := rc.ifd.Field(TagICCProfile); found {
		pb.ColorSpace.ICCProfile = f.Bytes()
	}

	bands := l.photometric.colorBands()
	if bands == 0 {
		return nil, newUnsupportedErrorf("photometric interpretation %s", l.photometric)
	}
	if l.samplesPerPixel < bands {
		return nil, newFormatErrorf("photometric interpretation %s needs %d samples per pixel, got %d", l.photometric, bands, l.samplesPerPixel)
	}

	var err error
	switch l.photometric {
	case PhotometricWhiteIsZero, PhotometricBlackIsZero:
		pb.ColorSpace.Model = ColorModelDeviceGray
		pb.Samples, err = rc.direct(bands, 1)
	case PhotometricRGB:
		pb.ColorSpace.Model = ColorModelSRGB
		pb.Samples, err = rc.direct(bands, 2)
	case PhotometricSeparated:
		if inkSet := rc.ifd.uintOr(TagInkSet, 1); inkSet != 1 {
			return nil, newUnsupportedErrorf("InkSet %d", inkSet)
		}
		pb.ColorSpace.Model = ColorModelDeviceCMYK
		pb.Samples, err = rc.direct(bands, 1)
	case PhotometricPalette:
		pb.ColorSpace.Model = ColorModelSRGB
		pb.Samples, err = rc.palette()
	case PhotometricYCbCr:
		pb.ColorSpace.Model = ColorModelSRGB
		pb.Samples, err = rc.ycbcr()
	}
	if err != nil {
		return nil, err
	}

	return pb, nil
}

// direct handles interpretations where samples are used as they are stored.
func (rc *reconstructor) direct(bands, maxExtra int) (Samples, error) {
	l := rc.layout
	spp := l.samplesPerPixel
	if spp > bands+maxExtra {
		return nil, newUnsupportedErrorf("photometric interpretation %s with %d samples per pixel", l.photometric, spp)
	}
	alpha := rc.alphaMode(spp - bands)

	if l.sampleFormat == SampleFormatFloat {
		if l.photometric == PhotometricWhiteIsZero {
			return nil, newUnsupportedErrorf("WhiteIsZero with float samples")
		}
		return rc.floatSamples(alpha), nil
	}

	raw := rc.interleaved()
	if l.photometric == PhotometricWhiteIsZero {
		mask := uint32(1)<<l.bitsPerSample - 1
		for i := 0; i < len(raw); i += spp {
			raw[i] ^= mask
		}
	}
	return newIntSamples(raw, spp, l.bitsPerSample, l.sampleFormat == SampleFormatInt, alpha), nil
}

func (rc *reconstructor) palette() (Samples, error) {
	l := rc.layout
	if l.samplesPerPixel != 1 {
		return nil, newUnsupportedErrorf("palette color with %d samples per pixel", l.samplesPerPixel)
	}
	if l.sampleFormat != SampleFormatUint || l.bitsPerSample > 16 {
		return nil, newUnsupportedErrorf("palette color with %d bit %s samples", l.bitsPerSample, l.sampleFormat)
	}

	n := 1 << l.bitsPerSample
	cm := rc.ifd.uints(TagColorMap)
	if cm == nil {
		return nil, newFormatErrorf("missing required tag %s", TagColorMap.Name())
	}
	if len(cm) != 3*n {
		return nil, newFormatErrorf("ColorMap has %d entries, %d bit indices need %d", len(cm), l.bitsPerSample, 3*n)
	}

	// The color map holds all reds, then all greens, then all blues, as 16 bit values.
	pal := make([]color.RGBA, n)
	for i := range pal {
		pal[i] = color.RGBA{R: uint8(cm[i] >> 8), G: uint8(cm[n+i] >> 8), B: uint8(cm[2*n+i] >> 8), A: 0xff}
	}

	raw := rc.interleaved()
	indices := make([]uint16, len(raw))
	for i, v := range raw {
		indices[i] = uint16(v)
	}

	return &IndexedSamples{
		BitsPerIndex: l.bitsPerSample,
		Indices:      indices,
		Palette:      pal,
	}, nil
}

func (rc *reconstructor) alphaMode(extra int) AlphaMode {
	if extra == 0 {
		return AlphaNone
	}
	vals := rc.ifd.uints(TagExtraSamples)
	if len(vals) == 0 {
		return AlphaNone
	}
	switch vals[0] {
	case 1:
		return AlphaAssociated
	case 2:
		return AlphaUnassociated
	}
	return AlphaNone
}

// interleaved unpacks all samples of the frame into pixel order,
// samplesPerPixel values per pixel.
func (rc *reconstructor) interleaved() []uint32 {
	l := rc.layout
	w, h, spp := l.width, l.height, l.samplesPerPixel
	order := rc.ifd.ByteOrder
	out := make([]uint32, w*h*spp)

	if !l.planar {
		p := l.planes[0]
		rowBytes := p.rowBytes(w)
		base := rc.frame.planeOffsets[0]
		for y := range h {
			unpackRow(out[y*w*spp:(y+1)*w*spp], rc.frame.data[base+y*rowBytes:], p.bits, order)
		}
		return out
	}

	row := make([]uint32, w)
	for s, p := range l.planes {
		rowBytes := p.rowBytes(w)
		base := rc.frame.planeOffsets[s]
		for y := range h {
			unpackRow(row, rc.frame.data[base+y*rowBytes:], p.bits, order)
			for x, v := range row {
				out[(y*w+x)*spp+s] = v
			}
		}
	}
	return out
}

func (rc *reconstructor) interleaved64() []uint64 {
	l := rc.layout
	w, h, spp := l.width, l.height, l.samplesPerPixel
	order := rc.ifd.ByteOrder
	out := make([]uint64, w*h*spp)

	if !l.planar {
		rowBytes := w * spp * 8
		base := rc.frame.planeOffsets[0]
		for y := range h {
			unpackRow64(out[y*w*spp:(y+1)*w*spp], rc.frame.data[base+y*rowBytes:], order)
		}
		return out
	}

	row := make([]uint64, w)
	for s := range l.planes {
		base := rc.frame.planeOffsets[s]
		for y := range h {
			unpackRow64(row, rc.frame.data[base+y*w*8:], order)
			for x, v := range row {
				out[(y*w+x)*spp+s] = v
			}
		}
	}
	return out
}

func (rc *reconstructor) floatSamples(alpha AlphaMode) *FloatSamples {
	l := rc.layout
	fs := &FloatSamples{
		SamplesPerPixel: l.samplesPerPixel,
		BitsPerSample:   l.bitsPerSample,
		Alpha:           alpha,
	}

	if l.bitsPerSample == 64 {
		raw := rc.interleaved64()
		fs.Pix64 = make([]float64, len(raw))
		for i, v := range raw {
			fs.Pix64[i] = math.Float64frombits(v)
		}
		return fs
	}

	raw := rc.interleaved()
	fs.Pix32 = make([]float32, len(raw))
	for i, v := range raw {
		switch l.bitsPerSample {
		case 16:
			fs.Pix32[i] = float16ToFloat32(uint16(v))
		case 24:
			fs.Pix32[i] = float24ToFloat32(v)
		default:
			fs.Pix32[i] = math.Float32frombits(v)
		}
	}
	return fs
}

func newIntSamples(raw []uint32, spp, bits int, signed bool, alpha AlphaMode) *IntSamples {
	s := &IntSamples{
		SamplesPerPixel: spp,
		BitsPerSample:   bits,
		Signed:          signed,
		Alpha:           alpha,
	}
	if signed {
		for i, v := range raw {
			raw[i] = uint32(signExtend(v, bits))
		}
	}
	switch {
	case bits <= 8:
		s.Pix8 = make([]uint8, len(raw))
		for i, v := range raw {
			s.Pix8[i] = uint8(v)
		}
	case bits <= 16:
		s.Pix16 = make([]uint16, len(raw))
		for i, v := range raw {
			s.Pix16[i] = uint16(v)
		}
	default:
		s.Pix32 = raw
	}
	return s
}
