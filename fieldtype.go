package tiffraster

import "fmt"

// FieldType is the on-disk value type of a directory entry.
type FieldType uint16

const (
	FieldTypeByte      FieldType = 1
	FieldTypeASCII     FieldType = 2
	FieldTypeShort     FieldType = 3
	FieldTypeLong      FieldType = 4
	FieldTypeRational  FieldType = 5
	FieldTypeSByte     FieldType = 6
	FieldTypeUndefined FieldType = 7
	FieldTypeSShort    FieldType = 8
	FieldTypeSLong     FieldType = 9
	FieldTypeSRational FieldType = 10
	FieldTypeFloat     FieldType = 11
	FieldTypeDouble    FieldType = 12
	// FieldTypeIFD is a LONG holding the offset of a child IFD (TIFF Technical Note 1).
	FieldTypeIFD FieldType = 13
)

// Size returns the size in bytes of one element of type t,
// or 0 if t is not a known type.
func (t FieldType) Size() uint32 {
	switch t {
	case FieldTypeByte, FieldTypeASCII, FieldTypeSByte, FieldTypeUndefined:
		return 1
	case FieldTypeShort, FieldTypeSShort:
		return 2
	case FieldTypeLong, FieldTypeSLong, FieldTypeFloat, FieldTypeIFD:
		return 4
	case FieldTypeRational, FieldTypeSRational, FieldTypeDouble:
		return 8
	default:
		return 0
	}
}

// IsKnown reports whether t is one of the types defined by TIFF 6.0.
func (t FieldType) IsKnown() bool {
	return t.Size() != 0
}

func (t FieldType) String() string {
	switch t {
	case FieldTypeByte:
		return "BYTE"
	case FieldTypeASCII:
		return "ASCII"
	case FieldTypeShort:
		return "SHORT"
	case FieldTypeLong:
		return "LONG"
	case FieldTypeRational:
		return "RATIONAL"
	case FieldTypeSByte:
		return "SBYTE"
	case FieldTypeUndefined:
		return "UNDEFINED"
	case FieldTypeSShort:
		return "SSHORT"
	case FieldTypeSLong:
		return "SLONG"
	case FieldTypeSRational:
		return "SRATIONAL"
	case FieldTypeFloat:
		return "FLOAT"
	case FieldTypeDouble:
		return "DOUBLE"
	case FieldTypeIFD:
		return "IFD"
	default:
		return fmt.Sprintf("FieldType(%d)", uint16(t))
	}
}
