package tiffraster

import (
	"image"
	"image/color"
	"math"
)

// Image returns the pixels as an image.Image, e.g. to re-encode them.
//
// Palette pages with up to 8 bit indices become *image.Paletted. Unsigned
// 8 bit pages become *image.Gray, *image.NRGBA, *image.RGBA or *image.CMYK.
// Everything else is scaled to 16 bits per channel, with CMYK converted
// to RGB without color management.
func (pb *PixelBuffer) Image() (image.Image, error) {
	rect := image.Rect(0, 0, pb.Width, pb.Height)

	switch s := pb.Samples.(type) {
	case *IndexedSamples:
		if s.BitsPerIndex > 8 {
			return nil, newUnsupportedErrorf("image.Paletted with %d bit indices", s.BitsPerIndex)
		}
		pal := make(color.Palette, len(s.Palette))
		for i, c := range s.Palette {
			pal[i] = c
		}
		img := image.NewPaletted(rect, pal)
		for i, v := range s.Indices {
			img.Pix[i] = uint8(v)
		}
		return img, nil
	case *IntSamples:
		if s.BitsPerSample == 8 && !s.Signed {
			return pb.image8(rect, s), nil
		}
		return pb.image16(rect, s.SamplesPerPixel, s.Alpha, s.scaled16), nil
	case *FloatSamples:
		scaled := func(i int) uint16 {
			v := s.Float64(i)
			if math.IsNaN(v) || v <= 0 {
				return 0
			}
			if v >= 1 {
				return 0xffff
			}
			return uint16(math.Round(v * 0xffff))
		}
		return pb.image16(rect, s.SamplesPerPixel, s.Alpha, scaled), nil
	}

	return nil, newUnsupportedErrorf("no samples")
}

func (pb *PixelBuffer) colorBands() int {
	switch pb.ColorSpace.Model {
	case ColorModelDeviceGray:
		return 1
	case ColorModelDeviceCMYK:
		return 4
	default:
		return 3
	}
}

func (pb *PixelBuffer) image8(rect image.Rectangle, s *IntSamples) image.Image {
	spp := s.SamplesPerPixel
	bands := pb.colorBands()
	hasAlpha := s.Alpha != AlphaNone && spp > bands
	n := pb.Width * pb.Height

	switch {
	case bands == 1 && !hasAlpha:
		img := image.NewGray(rect)
		for i := range n {
			img.Pix[i] = s.Pix8[i*spp]
		}
		return img
	case bands == 4:
		img := image.NewCMYK(rect)
		for i := range n {
			copy(img.Pix[i*4:i*4+4], s.Pix8[i*spp:i*spp+4])
		}
		return img
	}

	var pix []uint8
	var img image.Image
	if s.Alpha == AlphaAssociated {
		m := image.NewRGBA(rect)
		pix, img = m.Pix, m
	} else {
		m := image.NewNRGBA(rect)
		pix, img = m.Pix, m
	}
	for i := range n {
		src := s.Pix8[i*spp:]
		dst := pix[i*4 : i*4+4]
		if bands == 1 {
			dst[0], dst[1], dst[2] = src[0], src[0], src[0]
		} else {
			dst[0], dst[1], dst[2] = src[0], src[1], src[2]
		}
		dst[3] = 0xff
		if hasAlpha {
			dst[3] = src[bands]
		}
	}
	return img
}

func (pb *PixelBuffer) image16(rect image.Rectangle, spp int, alpha AlphaMode, sample func(i int) uint16) image.Image {
	bands := pb.colorBands()
	hasAlpha := alpha != AlphaNone && spp > bands
	n := pb.Width * pb.Height

	if bands == 1 && !hasAlpha {
		img := image.NewGray16(rect)
		for i := range n {
			v := sample(i * spp)
			img.Pix[i*2], img.Pix[i*2+1] = uint8(v>>8), uint8(v)
		}
		return img
	}

	var pix []uint8
	var img image.Image
	if alpha == AlphaAssociated {
		m := image.NewRGBA64(rect)
		pix, img = m.Pix, m
	} else {
		m := image.NewNRGBA64(rect)
		pix, img = m.Pix, m
	}
	for i := range n {
		var r, g, b, a uint16
		switch bands {
		case 1:
			r = sample(i * spp)
			g, b = r, r
		case 3:
			r, g, b = sample(i*spp), sample(i*spp+1), sample(i*spp+2)
		case 4:
			c, m, y, k := uint32(sample(i*spp)), uint32(sample(i*spp+1)), uint32(sample(i*spp+2)), uint32(sample(i*spp+3))
			w := 0xffff - k
			r = uint16((0xffff - c) * w / 0xffff)
			g = uint16((0xffff - m) * w / 0xffff)
			b = uint16((0xffff - y) * w / 0xffff)
		}
		a = 0xffff
		if hasAlpha {
			a = sample(i*spp + bands)
		}
		dst := pix[i*8 : i*8+8]
		for j, v := range [4]uint16{r, g, b, a} {
			dst[j*2], dst[j*2+1] = uint8(v>>8), uint8(v)
		}
	}
	return img
}

// scaled16 returns the i'th sample scaled to the full 16 bit range.
// Signed samples are offset so the most negative value maps to 0.
func (s *IntSamples) scaled16(i int) uint16 {
	bits := s.BitsPerSample
	maxVal := uint64(1)<<bits - 1

	var v uint64
	if s.Signed {
		var sv int64
		switch {
		case s.Pix8 != nil:
			sv = int64(int8(s.Pix8[i]))
		case s.Pix16 != nil:
			sv = int64(int16(s.Pix16[i]))
		default:
			sv = int64(int32(s.Pix32[i]))
		}
		v = uint64(sv + int64(1)<<(bits-1))
	} else {
		v = uint64(s.Uint(i))
	}

	return uint16(v * 0xffff / maxVal)
}
