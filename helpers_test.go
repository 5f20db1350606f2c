package tiffraster

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestStringer(t *testing.T) {
	c := qt.New(t)

	c.Assert(FieldTypeShort.String(), qt.Equals, "SHORT")
	c.Assert(FieldTypeSRational.String(), qt.Equals, "SRATIONAL")
	c.Assert(FieldType(42).String(), qt.Equals, "FieldType(42)")

	c.Assert(CompressionLZW.String(), qt.Equals, "LZW")
	c.Assert(CompressionPackBits.String(), qt.Equals, "PackBits")
	c.Assert(Compression(99).String(), qt.Equals, "Compression(99)")

	c.Assert(PhotometricYCbCr.String(), qt.Equals, "YCbCr")
	c.Assert(PhotometricUnknown.String(), qt.Equals, "Unknown")
	c.Assert(Photometric(7).String(), qt.Equals, "Photometric(7)")

	c.Assert(NamespaceEXIF.String(), qt.Equals, "EXIF")
	c.Assert(Namespace(9).String(), qt.Equals, "Namespace(9)")

	c.Assert(SampleFormatFloat.String(), qt.Equals, "Float")
	c.Assert(AlphaUnassociated.String(), qt.Equals, "Unassociated")
	c.Assert(ColorModelDeviceCMYK.String(), qt.Equals, "DeviceCMYK")

	c.Assert(TagImageWidth.Name(), qt.Equals, "ImageWidth")
	c.Assert(TagInteropIFDPointer.Name(), qt.Equals, "InteroperabilityIFDPointer")
	c.Assert(ImageTag(0xbeef).Name(), qt.Equals, "UnknownTag_0xbeef")
	c.Assert(Tag{ID: 0x2, Namespace: NamespaceGPS}.String(), qt.Equals, "GPSLatitude")
}

func TestRat(t *testing.T) {
	c := qt.New(t)

	c.Run("NewRat", func(c *qt.C) {
		ru, err := NewRat[uint32](1, 2)
		c.Assert(err, qt.IsNil)
		c.Assert(ru.Num(), qt.Equals, uint32(1))
		c.Assert(ru.Den(), qt.Equals, uint32(2))

		ri, err := NewRat[int32](1, 2)
		c.Assert(err, qt.IsNil)
		c.Assert(ri.Num(), qt.Equals, int32(1))
		c.Assert(ri.Den(), qt.Equals, int32(2))

		_, err = NewRat[int32](10, 0)
		c.Assert(err, qt.ErrorMatches, "denominator must be non-zero")

		// Denominator must be positive.
		ri, err = NewRat[int32](13, -3)
		c.Assert(err, qt.IsNil)
		c.Assert(ri.Num(), qt.Equals, int32(-13))
		c.Assert(ri.Den(), qt.Equals, int32(3))

		// Remove the greatest common divisor.
		ri, err = NewRat[int32](6, 9)
		c.Assert(err, qt.IsNil)
		c.Assert(ri.Num(), qt.Equals, int32(2))
		c.Assert(ri.Den(), qt.Equals, int32(3))
		ri, err = NewRat[int32](90, 600)
		c.Assert(err, qt.IsNil)
		c.Assert(ri.Num(), qt.Equals, int32(3))
		c.Assert(ri.Den(), qt.Equals, int32(20))
	})

	c.Run("String", func(c *qt.C) {
		ru, _ := NewRat[uint32](1, 2)
		c.Assert(ru.String(), qt.Equals, "1/2")
		ru, _ = NewRat[uint32](4, 1)
		c.Assert(ru.String(), qt.Equals, "4")
	})

	c.Run("Format", func(c *qt.C) {
		ru, _ := NewRat[uint32](1, 3)
		s := fmt.Sprintf("%.2f", ru)
		c.Assert(s, qt.Equals, "0.333333")
		s = fmt.Sprintf("%s", ru)
		c.Assert(s, qt.Equals, "1/3")
	})
}

func TestDecodeASCII(t *testing.T) {
	c := qt.New(t)

	c.Assert(decodeASCII([]byte("Hello\x00")), qt.Equals, "Hello")
	c.Assert(decodeASCII([]byte("\x00\x00")), qt.Equals, "")
	c.Assert(decodeASCII([]byte("Bjørn\x00")), qt.Equals, "Bjørn")
	// Latin-1.
	c.Assert(decodeASCII([]byte{'B', 'j', 0xf8, 'r', 'n', 0}), qt.Equals, "Bjørn")
}

func TestCeilDiv(t *testing.T) {
	c := qt.New(t)

	c.Assert(ceilDiv(0, 8), qt.Equals, 0)
	c.Assert(ceilDiv(1, 8), qt.Equals, 1)
	c.Assert(ceilDiv(8, 8), qt.Equals, 1)
	c.Assert(ceilDiv(9, 8), qt.Equals, 2)
}

func BenchmarkDecodeASCII(b *testing.B) {
	runBench := func(b *testing.B, name string, s []byte) {
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = decodeASCII(s)
			}
		})
	}

	runBench(b, "ASCII", []byte("Hello, World!\x00"))
	runBench(b, "UTF-8", []byte("Hello, 世界!\x00"))
	runBench(b, "Latin-1", []byte{'B', 'j', 0xf8, 'r', 'n', 0})
}
