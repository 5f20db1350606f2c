package tiffraster

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"
	"time"
)

func FuzzDecode(f *testing.F) {
	for _, order := range byteOrders {
		rgb := testRaster{width: 5, height: 7, samplesPerPixel: 3, bitsPerSample: 8, photometric: PhotometricRGB, compression: CompressionLZW, predictor: predictorHorizontal, rowsPerStrip: 3}
		f.Add(buildTIFF(order, rgb.page(order, packSamples(randomSamples(1, 5*7*3, 8), rgb, order)...)))

		tiled := testRaster{width: 20, height: 18, samplesPerPixel: 3, bitsPerSample: 16, photometric: PhotometricRGB, compression: CompressionDeflate, planar: true, tileWidth: 16, tileHeight: 16}
		f.Add(buildTIFF(order, tiled.page(order, packSamples(randomSamples(2, 20*18*3, 16), tiled, order)...)))

		gray := testRaster{width: 13, height: 3, samplesPerPixel: 1, bitsPerSample: 1, photometric: PhotometricWhiteIsZero, compression: CompressionPackBits}
		f.Add(buildTIFF(order, gray.page(order, packSamples(randomSamples(3, 13*3, 1), gray, order)...), grayPage(2, 2, 1)))
	}

	mid := func(x, y int) uint8 { return 128 }
	f.Add(buildTIFF(binary.LittleEndian, ycbcrPage(7, 5, 2, 2, false, func(x, y int) uint8 { return uint8(x + y) }, mid, mid)))

	f.Fuzz(func(t *testing.T, data []byte) {
		fuzzDecodeBytes(t, data)
	})
}

func fuzzDecodeBytes(t *testing.T, data []byte) {
	res, err := Decode(Options{R: bytes.NewReader(data), Timeout: 600 * time.Millisecond, LimitPixels: 1 << 22})
	if err != nil {
		if !IsFormatError(err) && !strings.Contains(err.Error(), "timed out") {
			t.Fatalf("unknown error in Decode: %v %T", err, err)
		}
		return
	}
	for _, pe := range res.PageErrors {
		if !IsFormatError(pe) && !IsUnsupported(pe) && !IsTruncated(pe) {
			t.Fatalf("unclassified page error: %v", pe)
		}
	}
	for _, p := range res.Pages {
		pb := p.Pixels
		if pb.Width != p.IFD.Width() || pb.Height != p.IFD.Height() {
			t.Fatalf("page %d: got %dx%d, IFD says %dx%d", p.Index, pb.Width, pb.Height, p.IFD.Width(), p.IFD.Height())
		}
		if _, err := pb.Image(); err != nil && !errors.Is(err, ErrUnsupported) {
			t.Fatalf("page %d: Image: %v", p.Index, err)
		}
	}
}
