package tiffraster

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Field is one decoded directory entry.
// The value array is owned by the field and never changed after parsing.
type Field struct {
	Tag   Tag
	Type  FieldType
	Count uint32

	// One of []uint8, string, []uint16, []uint32, []Rat[uint32], []int8,
	// []int16, []int32, []Rat[int32], []float32 or []float64.
	value any
}

// Value returns the typed value array of the field.
// For ASCII fields this is a string, for the other types a slice with Count elements.
// The returned slice must not be modified.
func (f *Field) Value() any {
	return f.value
}

// Uints returns the values of an unsigned integer field (BYTE, SHORT, LONG, IFD)
// widened to uint32. It returns nil for other types.
func (f *Field) Uints() []uint32 {
	switch v := f.value.(type) {
	case []uint8:
		if f.Type == FieldTypeUndefined {
			return nil
		}
		u := make([]uint32, len(v))
		for i, b := range v {
			u[i] = uint32(b)
		}
		return u
	case []uint16:
		u := make([]uint32, len(v))
		for i, s := range v {
			u[i] = uint32(s)
		}
		return u
	case []uint32:
		return v
	}
	return nil
}

// Uint returns the i'th value of an unsigned integer field.
func (f *Field) Uint(i int) (uint32, bool) {
	switch v := f.value.(type) {
	case []uint8:
		if i < len(v) && f.Type != FieldTypeUndefined {
			return uint32(v[i]), true
		}
	case []uint16:
		if i < len(v) {
			return uint32(v[i]), true
		}
	case []uint32:
		if i < len(v) {
			return v[i], true
		}
	}
	return 0, false
}

// Float64s returns the values of any numeric field as float64.
// Rationals are divided out. It returns nil for ASCII and UNDEFINED fields.
func (f *Field) Float64s() []float64 {
	if f.Type == FieldTypeUndefined {
		return nil
	}
	switch v := f.value.(type) {
	case []uint8:
		return toFloats(v)
	case []uint16:
		return toFloats(v)
	case []uint32:
		return toFloats(v)
	case []int8:
		return toFloats(v)
	case []int16:
		return toFloats(v)
	case []int32:
		return toFloats(v)
	case []float32:
		return toFloats(v)
	case []float64:
		return v
	case []Rat[uint32]:
		fs := make([]float64, len(v))
		for i, r := range v {
			fs[i] = r.Float64()
		}
		return fs
	case []Rat[int32]:
		fs := make([]float64, len(v))
		for i, r := range v {
			fs[i] = r.Float64()
		}
		return fs
	}
	return nil
}

// Bytes returns the raw values of a BYTE or UNDEFINED field.
func (f *Field) Bytes() []byte {
	if b, ok := f.value.([]uint8); ok {
		return b
	}
	return nil
}

// String returns the value of an ASCII field, or a printable
// representation of the value for other types.
func (f *Field) String() string {
	if s, ok := f.value.(string); ok {
		return s
	}
	if f.Type == FieldTypeUndefined {
		return fmt.Sprintf("(Binary data %d bytes)", f.Count)
	}
	return fmt.Sprintf("%v", f.value)
}

func toFloats[T uint8 | uint16 | uint32 | int8 | int16 | int32 | float32](v []T) []float64 {
	fs := make([]float64, len(v))
	for i, n := range v {
		fs[i] = float64(n)
	}
	return fs
}

// decodeFieldValue decodes count elements of type typ from b,
// which must hold exactly count*typ.Size() bytes.
func decodeFieldValue(order binary.ByteOrder, typ FieldType, count uint32, b []byte) any {
	n := int(count)
	switch typ {
	case FieldTypeByte, FieldTypeUndefined:
		v := make([]uint8, n)
		copy(v, b)
		return v
	case FieldTypeASCII:
		return decodeASCII(b)
	case FieldTypeSByte:
		v := make([]int8, n)
		for i := range v {
			v[i] = int8(b[i])
		}
		return v
	case FieldTypeShort:
		v := make([]uint16, n)
		for i := range v {
			v[i] = order.Uint16(b[i*2:])
		}
		return v
	case FieldTypeSShort:
		v := make([]int16, n)
		for i := range v {
			v[i] = int16(order.Uint16(b[i*2:]))
		}
		return v
	case FieldTypeLong, FieldTypeIFD:
		v := make([]uint32, n)
		for i := range v {
			v[i] = order.Uint32(b[i*4:])
		}
		return v
	case FieldTypeSLong:
		v := make([]int32, n)
		for i := range v {
			v[i] = int32(order.Uint32(b[i*4:]))
		}
		return v
	case FieldTypeRational:
		v := make([]Rat[uint32], n)
		for i := range v {
			v[i] = rat[uint32]{num: order.Uint32(b[i*8:]), den: order.Uint32(b[i*8+4:])}
		}
		return v
	case FieldTypeSRational:
		v := make([]Rat[int32], n)
		for i := range v {
			v[i] = rat[int32]{num: int32(order.Uint32(b[i*8:])), den: int32(order.Uint32(b[i*8+4:]))}
		}
		return v
	case FieldTypeFloat:
		v := make([]float32, n)
		for i := range v {
			v[i] = math.Float32frombits(order.Uint32(b[i*4:]))
		}
		return v
	case FieldTypeDouble:
		v := make([]float64, n)
		for i := range v {
			v[i] = math.Float64frombits(order.Uint64(b[i*8:]))
		}
		return v
	default:
		panic(newFormatErrorf("field type %s not implemented", typ))
	}
}

// formatValues is used by the String methods of IFD and the CLI.
func formatValues(f *Field, limit int) string {
	if f.Count > uint32(limit) && f.Type != FieldTypeASCII {
		return fmt.Sprintf("[%d values]", f.Count)
	}
	return strings.TrimSpace(f.String())
}
