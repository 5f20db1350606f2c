package tiffraster

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// IFD is one parsed Image File Directory.
// Fields are kept in file order and are unique by tag.
// An IFD is read-only after parsing.
type IFD struct {
	// Namespace of the tags in this IFD.
	Namespace Namespace

	// Offset is the absolute position of the IFD in the stream.
	Offset int64

	// ByteOrder of the stream the IFD was read from.
	// Multi-byte samples in the page data use the same order.
	ByteOrder binary.ByteOrder

	// NextOffset is the offset of the next IFD in the chain, 0 if this is the last one.
	NextOffset int64

	// SubIFDs are the child IFDs referenced by the SubIFDs tag, typically
	// reduced resolution versions of the page.
	SubIFDs []*IFD

	// EXIF, GPS and Interop are the private child IFDs, nil if not present.
	EXIF    *IFD
	GPS     *IFD
	Interop *IFD

	fields []*Field
	byID   map[uint16]*Field
}

func newIFD(ns Namespace, offset int64, order binary.ByteOrder) *IFD {
	return &IFD{
		Namespace: ns,
		Offset:    offset,
		ByteOrder: order,
		byID:      make(map[uint16]*Field),
	}
}

// add adds f to the IFD. It reports false if the tag is already present.
// Only used while parsing.
func (d *IFD) add(f *Field) bool {
	if _, found := d.byID[f.Tag.ID]; found {
		return false
	}
	d.fields = append(d.fields, f)
	d.byID[f.Tag.ID] = f
	return true
}

// Fields returns the fields in file order.
func (d *IFD) Fields() []*Field {
	return append([]*Field(nil), d.fields...)
}

// Len returns the number of fields.
func (d *IFD) Len() int {
	return len(d.fields)
}

// Field looks up the field with the given tag.
func (d *IFD) Field(tag Tag) (*Field, bool) {
	if tag.Namespace != d.Namespace {
		return nil, false
	}
	f, found := d.byID[tag.ID]
	return f, found
}

// Has reports whether the IFD contains tag.
func (d *IFD) Has(tag Tag) bool {
	_, found := d.Field(tag)
	return found
}

// Width returns ImageWidth, 0 if missing.
func (d *IFD) Width() int {
	v, _ := d.uint(TagImageWidth)
	return int(v)
}

// Height returns ImageLength, 0 if missing.
func (d *IFD) Height() int {
	v, _ := d.uint(TagImageLength)
	return int(v)
}

// Compression returns the Compression tag value, 0 if missing.
func (d *IFD) Compression() Compression {
	v, _ := d.uint(TagCompression)
	return Compression(v)
}

// Photometric returns the PhotometricInterpretation tag value,
// PhotometricUnknown if missing.
func (d *IFD) Photometric() Photometric {
	v, ok := d.uint(TagPhotometricInterpretation)
	if !ok {
		return PhotometricUnknown
	}
	return Photometric(v)
}

// IsTiled reports whether the page is stored in tiles rather than strips.
func (d *IFD) IsTiled() bool {
	return d.Has(TagTileWidth) && d.Has(TagTileOffsets)
}

// IsReducedResolution reports whether NewSubfileType marks this as a
// reduced resolution version of another page, e.g. a thumbnail.
func (d *IFD) IsReducedResolution() bool {
	v, _ := d.uint(TagNewSubfileType)
	return v&1 != 0
}

func (d *IFD) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "IFD@%d (%s, %d fields)", d.Offset, d.Namespace, len(d.fields))
	for _, f := range d.fields {
		fmt.Fprintf(&sb, "\n  %s (%s x %d): %s", f.Tag.Name(), f.Type, f.Count, formatValues(f, 16))
	}
	return sb.String()
}

func (d *IFD) uint(tag Tag) (uint32, bool) {
	f, found := d.Field(tag)
	if !found {
		return 0, false
	}
	return f.Uint(0)
}

func (d *IFD) uintOr(tag Tag, def uint32) uint32 {
	if v, ok := d.uint(tag); ok {
		return v
	}
	return def
}

// requiredUint returns the first value of a tag that must be present
// and have an unsigned integer type.
func (d *IFD) requiredUint(tag Tag) (uint32, error) {
	f, found := d.Field(tag)
	if !found {
		return 0, newFormatErrorf("missing required tag %s", tag.Name())
	}
	v, ok := f.Uint(0)
	if !ok {
		return 0, newFormatErrorf("tag %s: expected an unsigned integer value, got %s x %d", tag.Name(), f.Type, f.Count)
	}
	return v, nil
}

func (d *IFD) uints(tag Tag) []uint32 {
	f, found := d.Field(tag)
	if !found {
		return nil
	}
	return f.Uints()
}

func (d *IFD) floatsOr(tag Tag, def []float64) []float64 {
	f, found := d.Field(tag)
	if !found {
		return def
	}
	v := f.Float64s()
	if len(v) < len(def) {
		return def
	}
	return v
}
