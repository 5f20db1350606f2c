package tiffraster

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/google/go-cmp/cmp"
)

func TestUnpackRow(t *testing.T) {
	c := qt.New(t)

	c.Run("sub-byte", func(c *qt.C) {
		dst := make([]uint32, 8)
		unpackRow(dst, []byte{0b10110010}, 1, binary.BigEndian)
		c.Assert(dst, qt.DeepEquals, []uint32{1, 0, 1, 1, 0, 0, 1, 0})

		dst = make([]uint32, 3)
		unpackRow(dst, []byte{0b11100100, 0b10000000}, 3, binary.BigEndian)
		c.Assert(dst, qt.DeepEquals, []uint32{0b111, 0b001, 0b001})

		dst = make([]uint32, 3)
		unpackRow(dst, []byte{0x12, 0x34, 0x50}, 4, binary.LittleEndian)
		c.Assert(dst, qt.DeepEquals, []uint32{1, 2, 3})

		dst = make([]uint32, 2)
		unpackRow(dst, []byte{0xff, 0xc0, 0x10}, 10, binary.BigEndian)
		c.Assert(dst, qt.DeepEquals, []uint32{0x3ff, 0x001})
	})

	c.Run("byte aligned", func(c *qt.C) {
		src := []byte{1, 2, 3, 4, 5, 6}
		for _, test := range []struct {
			bits  int
			order binary.ByteOrder
			want  []uint32
		}{
			{8, binary.BigEndian, []uint32{1, 2, 3, 4, 5, 6}},
			{16, binary.BigEndian, []uint32{0x0102, 0x0304, 0x0506}},
			{16, binary.LittleEndian, []uint32{0x0201, 0x0403, 0x0605}},
			{24, binary.BigEndian, []uint32{0x010203, 0x040506}},
			{24, binary.LittleEndian, []uint32{0x030201, 0x060504}},
			{32, binary.BigEndian, []uint32{0x01020304}},
			{32, binary.LittleEndian, []uint32{0x04030201}},
		} {
			c.Run(fmt.Sprintf("%d %s", test.bits, test.order), func(c *qt.C) {
				dst := make([]uint32, len(test.want))
				unpackRow(dst, src, test.bits, test.order)
				c.Assert(cmp.Diff(test.want, dst), qt.Equals, "")
			})
		}
	})

	c.Run("round trip", func(c *qt.C) {
		for bits := 1; bits <= 32; bits++ {
			vals := randomSamples(int64(bits), 37, bits)
			row := make([]byte, ceilDiv(len(vals)*bits, 8))
			packRow(row, vals, bits, binary.LittleEndian)
			dst := make([]uint32, len(vals))
			unpackRow(dst, row, bits, binary.LittleEndian)
			c.Assert(cmp.Diff(vals, dst), qt.Equals, "", qt.Commentf("%d bits", bits))
		}
	})
}

func TestReverseBits(t *testing.T) {
	c := qt.New(t)

	b := []byte{0b00000001, 0b10110000, 0xff}
	reverseBits(b)
	c.Assert(b, qt.DeepEquals, []byte{0b10000000, 0b00001101, 0xff})
}

func TestSignExtend(t *testing.T) {
	c := qt.New(t)

	c.Assert(signExtend(0xf, 4), qt.Equals, int32(-1))
	c.Assert(signExtend(0x7, 4), qt.Equals, int32(7))
	c.Assert(signExtend(0x8000, 16), qt.Equals, int32(-32768))
	c.Assert(signExtend(0xffffffff, 32), qt.Equals, int32(-1))
}

func TestFloat16ToFloat32(t *testing.T) {
	c := qt.New(t)

	for _, test := range []struct {
		in   uint16
		want float32
	}{
		{0x0000, 0},
		{0x3c00, 1},
		{0xc000, -2},
		{0x3555, 0.333251953125},
		{0x7bff, 65504},
		{0x0001, float32(math.Ldexp(1, -24))},
		{0x0400, float32(math.Ldexp(1, -14))},
		{0x7c00, float32(math.Inf(1))},
		{0xfc00, float32(math.Inf(-1))},
	} {
		c.Assert(float16ToFloat32(test.in), qt.Equals, test.want, qt.Commentf("%#04x", test.in))
	}

	c.Assert(math.IsNaN(float64(float16ToFloat32(0x7e00))), qt.IsTrue)
	c.Assert(math.Signbit(float64(float16ToFloat32(0x8000))), qt.IsTrue)
}

func TestFloat24ToFloat32(t *testing.T) {
	c := qt.New(t)

	for _, test := range []struct {
		in   uint32
		want float32
	}{
		{0x000000, 0},
		{0x3f0000, 1},
		{0xc00000, -2},
		{0x3f8000, 1.5},
		{0x400000, 2},
		{0x000001, float32(math.Ldexp(1, -78))},
		{0x7f0000, float32(math.Inf(1))},
	} {
		c.Assert(float24ToFloat32(test.in), qt.Equals, test.want, qt.Commentf("%#06x", test.in))
	}

	c.Assert(math.IsNaN(float64(float24ToFloat32(0x7f0001))), qt.IsTrue)
}
