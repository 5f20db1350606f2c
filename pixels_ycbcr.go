package tiffraster

import "math"

var (
	defaultYCbCrCoefficients = []float64{0.299, 0.587, 0.114}
	defaultReferenceBW       = []float64{0, 255, 128, 255, 128, 255}
)

// ycbcrConverter converts 8 bit YCbCr samples to RGB using the
// YCbCrCoefficients and ReferenceBlackWhite of the page.
type ycbcrConverter struct {
	lumaRed, lumaGreen, lumaBlue float64

	// Black and white reference pairs for Y, Cb and Cr.
	refBW [6]float64
}

func newYCbCrConverter(ifd *IFD) (*ycbcrConverter, error) {
	coef := ifd.floatsOr(TagYCbCrCoefficients, defaultYCbCrCoefficients)
	ref := ifd.floatsOr(TagReferenceBlackWhite, defaultReferenceBW)

	c := &ycbcrConverter{
		lumaRed:   coef[0],
		lumaGreen: coef[1],
		lumaBlue:  coef[2],
	}
	copy(c.refBW[:], ref)

	if c.lumaGreen == 0 {
		return nil, newFormatErrorf("YCbCrCoefficients: green coefficient is 0")
	}
	for i := 0; i < 6; i += 2 {
		if c.refBW[i] == c.refBW[i+1] {
			return nil, newFormatErrorf("ReferenceBlackWhite: black and white are both %v", c.refBW[i])
		}
	}
	return c, nil
}

func (c *ycbcrConverter) rgb(y, cb, cr uint8) (uint8, uint8, uint8) {
	yf := (float64(y) - c.refBW[0]) * 255 / (c.refBW[1] - c.refBW[0])
	cbf := (float64(cb) - c.refBW[2]) * 127 / (c.refBW[3] - c.refBW[2])
	crf := (float64(cr) - c.refBW[4]) * 127 / (c.refBW[5] - c.refBW[4])

	r := crf*(2-2*c.lumaRed) + yf
	b := cbf*(2-2*c.lumaBlue) + yf
	g := (yf - c.lumaBlue*b - c.lumaRed*r) / c.lumaGreen

	return clamp8(r), clamp8(g), clamp8(b)
}

func clamp8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// ycbcr converts the frame to 8 bit RGB.
// Subsampled data covers whole data units; pixels in the padding
// beyond the image edges are dropped.
func (rc *reconstructor) ycbcr() (Samples, error) {
	l := rc.layout
	if l.samplesPerPixel != 3 {
		return nil, newUnsupportedErrorf("YCbCr with %d samples per pixel", l.samplesPerPixel)
	}
	if l.bitsPerSample != 8 || l.sampleFormat != SampleFormatUint {
		return nil, newUnsupportedErrorf("YCbCr with %d bit %s samples", l.bitsPerSample, l.sampleFormat)
	}
	conv, err := newYCbCrConverter(rc.ifd)
	if err != nil {
		return nil, err
	}

	w, h := l.width, l.height
	pix := make([]uint8, w*h*3)
	put := func(x, y int, yy, cb, cr uint8) {
		if x >= w || y >= h {
			return
		}
		i := (y*w + x) * 3
		pix[i], pix[i+1], pix[i+2] = conv.rgb(yy, cb, cr)
	}

	data := rc.frame.data
	if !l.planar {
		p := l.planes[0]
		base := rc.frame.planeOffsets[0]
		rowBytes := p.rowBytes(w)
		n := p.blockW * p.blockH
		for by := range p.byteRows(h) {
			for bx := range ceilDiv(w, p.blockW) {
				du := data[base+by*rowBytes+bx*p.blockSamples:]
				cb, cr := du[n], du[n+1]
				for j := range p.blockH {
					for i := range p.blockW {
						put(bx*p.blockW+i, by*p.blockH+j, du[j*p.blockW+i], cb, cr)
					}
				}
			}
		}
	} else {
		luma, cbPlane, crPlane := l.planes[0], l.planes[1], l.planes[2]
		lumaBase, cbBase, crBase := rc.frame.planeOffsets[0], rc.frame.planeOffsets[1], rc.frame.planeOffsets[2]
		lumaStride := luma.rowBytes(luma.width)
		chromaStride := cbPlane.rowBytes(cbPlane.width)
		if crPlane.rowBytes(crPlane.width) != chromaStride {
			return nil, newFormatErrorf("YCbCr chroma planes differ in size")
		}
		for y := range h {
			for x := range w {
				ci := (y/l.subV)*chromaStride + x/l.subH
				put(x, y, data[lumaBase+y*lumaStride+x], data[cbBase+ci], data[crBase+ci])
			}
		}
	}

	return &IntSamples{
		SamplesPerPixel: 3,
		BitsPerSample:   8,
		Pix8:            pix,
	}, nil
}
