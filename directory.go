package tiffraster

import (
	"encoding/binary"
)

const (
	byteOrderBigEndian    = 0x4d4d // MM
	byteOrderLittleEndian = 0x4949 // II
	meaningOfLife         = 42

	headerSize = 8
	entrySize  = 12

	// Main IFD -> SubIFD/EXIF/GPS -> Interop.
	maxIFDDepth = 2
)

// Directories is the parsed IFD chain of a stream.
type Directories struct {
	ByteOrder binary.ByteOrder

	// IFDs holds one IFD per page, in chain order.
	IFDs []*IFD

	// PageErrors holds the error for the IFD that ended the chain early, if any.
	// The IFDs before it are kept.
	PageErrors []*PageError
}

type directoryParser struct {
	*streamReader
	opts Options

	visited   map[int64]bool
	numFields uint32
}

func newDirectoryParser(opts Options) *directoryParser {
	return &directoryParser{
		streamReader: newStreamReader(opts.R, binary.BigEndian),
		opts:         opts,
		visited:      make(map[int64]bool),
	}
}

// readHeader reads the byte order mark, the version constant and the
// offset of the first IFD.
func (p *directoryParser) readHeader() (int64, error) {
	var first int64
	err := p.protect(func() error {
		p.seek(0)
		switch p.read2() {
		case byteOrderBigEndian:
			p.byteOrder = binary.BigEndian
		case byteOrderLittleEndian:
			p.byteOrder = binary.LittleEndian
		default:
			return newFormatErrorf("invalid byte order mark")
		}
		if id := p.read2(); id != meaningOfLife {
			return newFormatErrorf("invalid version %d", id)
		}
		first = int64(p.read4())
		return nil
	})
	if err != nil {
		if IsFormatError(err) {
			return 0, err
		}
		// A stream too short to hold a header is not a TIFF.
		return 0, newFormatErrorf("reading header: %v", err)
	}
	if first < headerSize {
		return 0, newFormatErrorf("invalid first IFD offset %d", first)
	}
	return first, nil
}

func (p *directoryParser) parse() (Directories, error) {
	first, err := p.readHeader()
	if err != nil {
		return Directories{}, err
	}

	dirs := Directories{ByteOrder: p.byteOrder}

	offset := first
	for page := 0; offset != 0; page++ {
		if page >= p.opts.LimitPages {
			p.opts.Warnf("page limit %d reached, ignoring the rest of the IFD chain", p.opts.LimitPages)
			break
		}
		var ifd *IFD
		err := p.protect(func() error {
			var err error
			ifd, err = p.parseIFD(NamespaceImage, offset, 0)
			return err
		})
		if err != nil {
			dirs.PageErrors = append(dirs.PageErrors, &PageError{Page: page, Err: err})
			break
		}
		dirs.IFDs = append(dirs.IFDs, ifd)
		offset = ifd.NextOffset
	}

	return dirs, nil
}

// A field is represented in 12 bytes:
//   - 2 bytes for the tag ID
//   - 2 bytes for the data type
//   - 4 bytes for the number of data values of the specified type
//   - 4 bytes for the value itself, if it fits, otherwise for a pointer to another location where the data may be found;
//     this could be a pointer to the beginning of another IFD.
func (p *directoryParser) parseIFD(ns Namespace, offset int64, depth int) (*IFD, error) {
	if offset < headerSize || offset >= p.length() {
		return nil, newFormatErrorf("IFD offset %d out of range", offset)
	}
	if p.visited[offset] {
		return nil, newFormatErrorf("IFD at %d already visited, the IFD chain contains a loop", offset)
	}
	p.visited[offset] = true

	p.seek(offset)
	numEntries := int64(p.read2())
	if numEntries == 0 {
		return nil, newFormatErrorf("IFD at %d doesn't contain any fields", offset)
	}
	if end := offset + 2 + numEntries*entrySize + 4; end > p.length() {
		return nil, newTruncatedErrorf("IFD at %d extends past end of input, attempting to read %d entries", offset, numEntries)
	}

	ifd := newIFD(ns, offset, p.byteOrder)

	for i := range numEntries {
		p.numFields++
		if p.numFields > p.opts.LimitNumFields {
			return nil, newFormatErrorf("field limit %d exceeded", p.opts.LimitNumFields)
		}
		p.seek(offset + 2 + i*entrySize)
		f, ok := p.parseField(ns)
		if !ok {
			continue
		}
		if !ifd.add(f) {
			p.opts.Warnf("IFD at %d: duplicate tag %s, keeping the first", offset, f.Tag.Name())
		}
	}

	p.seek(offset + 2 + numEntries*entrySize)
	ifd.NextOffset = int64(p.read4())

	if depth < maxIFDDepth {
		p.parseChildren(ifd, depth)
	}

	return ifd, nil
}

// parseField reads one 12 byte entry at the current position and resolves its value.
// Entries that cannot be represented are skipped with a warning.
func (p *directoryParser) parseField(ns Namespace) (*Field, bool) {
	tag := Tag{ID: p.read2(), Namespace: ns}
	typ := FieldType(p.read2())
	count := p.read4()
	slot := p.readBytesVolatile(4)

	if !typ.IsKnown() {
		p.opts.Warnf("tag %s: unknown field type %d, skipping", tag.Name(), typ)
		return nil, false
	}

	size := uint64(count) * uint64(typ.Size())
	if size > uint64(p.opts.LimitFieldSize) {
		p.opts.Warnf("tag %s: value of %d bytes exceeds limit %d, skipping", tag.Name(), size, p.opts.LimitFieldSize)
		return nil, false
	}

	var b []byte
	if size <= 4 {
		b = make([]byte, size)
		copy(b, slot)
	} else {
		valueOffset := int64(p.byteOrder.Uint32(slot))
		b = p.readBytesAt(valueOffset, int64(size))
	}

	return &Field{
		Tag:   tag,
		Type:  typ,
		Count: count,
		value: decodeFieldValue(p.byteOrder, typ, count, b),
	}, true
}

// parseChildren resolves the child IFDs of ifd.
// Children are not part of the page chain, so a broken child is only a warning.
func (p *directoryParser) parseChildren(ifd *IFD, depth int) {
	for _, f := range ifd.fields {
		childNS, ok := childIFDPointers[f.Tag]
		if !ok {
			continue
		}
		for _, off := range f.Uints() {
			var child *IFD
			err := p.protect(func() error {
				var err error
				child, err = p.parseIFD(childNS, int64(off), depth+1)
				return err
			})
			if err != nil {
				p.opts.Warnf("%s IFD at %d: %s", childNS, off, err)
				continue
			}
			switch f.Tag {
			case TagSubIFDs:
				ifd.SubIFDs = append(ifd.SubIFDs, child)
			case TagExifIFDPointer:
				ifd.EXIF = child
			case TagGPSIFDPointer:
				ifd.GPS = child
			case TagInteropIFDPointer:
				ifd.Interop = child
			}
		}
	}
}
