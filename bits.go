package tiffraster

import (
	"encoding/binary"
	"math"
	"math/bits"
)

// reverseBits reverses the bit order of every byte in b (FillOrder 2).
func reverseBits(b []byte) {
	for i, v := range b {
		b[i] = bits.Reverse8(v)
	}
}

// unpackRow decodes len(dst) samples of the given bit depth from src.
// Depths of 8, 16, 24 and 32 are byte aligned and honour the byte order;
// all other depths are read as a big-endian bit stream, as TIFF requires.
// src must hold at least ceil(len(dst)*depth/8) bytes.
func unpackRow(dst []uint32, src []byte, depth int, order binary.ByteOrder) {
	switch depth {
	case 8:
		for i := range dst {
			dst[i] = uint32(src[i])
		}
	case 16:
		for i := range dst {
			dst[i] = uint32(order.Uint16(src[i*2:]))
		}
	case 24:
		for i := range dst {
			b := src[i*3 : i*3+3]
			if order == binary.LittleEndian {
				dst[i] = uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
			} else {
				dst[i] = uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
			}
		}
	case 32:
		for i := range dst {
			dst[i] = order.Uint32(src[i*4:])
		}
	default:
		var acc uint64
		var n, pos int
		mask := uint64(1)<<depth - 1
		for i := range dst {
			for n < depth {
				acc = acc<<8 | uint64(src[pos])
				pos++
				n += 8
			}
			dst[i] = uint32(acc >> (n - depth) & mask)
			n -= depth
		}
	}
}

// unpackRow64 decodes len(dst) 64-bit samples from src.
func unpackRow64(dst []uint64, src []byte, order binary.ByteOrder) {
	for i := range dst {
		dst[i] = order.Uint64(src[i*8:])
	}
}

// signExtend interprets the low depth bits of v as a two's complement number.
func signExtend(v uint32, depth int) int32 {
	shift := 32 - depth
	return int32(v<<shift) >> shift
}

// float16ToFloat32 widens an IEEE 754 half precision value.
func float16ToFloat32(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h) & 0x3ff

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal: mant * 2^-24.
		f := float32(math.Ldexp(float64(mant), -24))
		if sign != 0 {
			f = -f
		}
		return f
	case 0x1f:
		return math.Float32frombits(sign | 0xff<<23 | mant<<13)
	default:
		return math.Float32frombits(sign | (exp-15+127)<<23 | mant<<13)
	}
}

// float24ToFloat32 widens a 24 bit float: 1 sign bit, 7 exponent bits
// with a bias of 63 and 16 mantissa bits. There is no hardware type for it.
func float24ToFloat32(v uint32) float32 {
	sign := (v >> 23 & 1) << 31
	exp := v >> 16 & 0x7f
	mant := v & 0xffff

	switch exp {
	case 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal: mant/2^16 * 2^(1-63).
		f := float32(math.Ldexp(float64(mant), -16-62))
		if sign != 0 {
			f = -f
		}
		return f
	case 0x7f:
		return math.Float32frombits(sign | 0xff<<23 | mant<<7)
	default:
		return math.Float32frombits(sign | (exp-63+127)<<23 | mant<<7)
	}
}
