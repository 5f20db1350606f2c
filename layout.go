package tiffraster

// layout is the storage geometry of one page, resolved from its IFD
// before any strip or tile data is read.
type layout struct {
	width, height   int
	samplesPerPixel int
	bitsPerSample   int
	sampleFormat    SampleFormat
	photometric     Photometric
	compression     Compression
	predictor       int
	fillOrder       int
	planar          bool
	tiled           bool

	// YCbCr chroma subsampling factors, 1 for all other pages.
	subH, subV int

	planes []plane
	units  []unit
}

// plane is one separately stored group of samples.
// Chunky pages have a single plane holding all samples of a pixel.
//
// Samples are stored in blocks of blockW x blockH pixels holding
// blockSamples samples. A block is one pixel in all cases except chunky
// subsampled YCbCr, where it is a data unit of h x v luma samples
// followed by one Cb and one Cr sample.
type plane struct {
	index int

	// Size of the plane in pixels. Chroma planes of planar YCbCr pages
	// are smaller than the page.
	width, height int

	// Size of a strip or tile in pixels of this plane.
	unitWidth, unitHeight int

	blockW, blockH, blockSamples int
	bits                         int

	// offset is the start of the plane in the frame buffer.
	offset int
}

// rowBytes returns the number of bytes used for one row of blocks
// covering w pixels. Rows start on a byte boundary.
func (p plane) rowBytes(w int) int {
	return ceilDiv(ceilDiv(w, p.blockW)*p.blockSamples*p.bits, 8)
}

// byteRows returns the number of block rows covering h pixel rows.
func (p plane) byteRows(h int) int {
	return ceilDiv(h, p.blockH)
}

func (p plane) size() int {
	return p.rowBytes(p.width) * p.byteRows(p.height)
}

// unit is one strip or tile.
type unit struct {
	index int
	plane int

	// Position in the strip or tile grid of the plane.
	col, row int

	// Pixels of the plane covered by the decoded unit. For tiles this
	// is always the full tile size, padding included.
	width, height int

	offset, byteCount int64
}

func (u unit) decodedSize(p plane) int {
	return p.rowBytes(u.width) * p.byteRows(u.height)
}

func newLayout(ifd *IFD, opts Options) (*layout, error) {
	var (
		l   = &layout{subH: 1, subV: 1}
		err error
		v   uint32
	)

	if v, err = ifd.requiredUint(TagImageWidth); err != nil {
		return nil, err
	}
	l.width = int(v)
	if v, err = ifd.requiredUint(TagImageLength); err != nil {
		return nil, err
	}
	l.height = int(v)
	if l.width == 0 || l.height == 0 {
		return nil, newFormatErrorf("invalid image size %dx%d", l.width, l.height)
	}

	if v, err = ifd.requiredUint(TagSamplesPerPixel); err != nil {
		return nil, err
	}
	l.samplesPerPixel = int(v)
	if l.samplesPerPixel == 0 {
		return nil, newFormatErrorf("SamplesPerPixel is 0")
	}

	if v, err = ifd.requiredUint(TagCompression); err != nil {
		return nil, err
	}
	l.compression = Compression(v)

	if v, err = ifd.requiredUint(TagPhotometricInterpretation); err != nil {
		return nil, err
	}
	l.photometric = Photometric(v)

	if _, err = ifd.requiredUint(TagBitsPerSample); err != nil {
		return nil, err
	}
	if l.bitsPerSample, err = uniform(ifd, TagBitsPerSample, 0, l.samplesPerPixel); err != nil {
		return nil, err
	}
	sf, err := uniform(ifd, TagSampleFormat, int(SampleFormatUint), l.samplesPerPixel)
	if err != nil {
		return nil, err
	}
	l.sampleFormat = SampleFormat(sf)
	if l.sampleFormat == SampleFormatUndefined {
		l.sampleFormat = SampleFormatUint
	}
	if err := l.checkSampleFormat(); err != nil {
		return nil, err
	}

	l.predictor = int(ifd.uintOr(TagPredictor, 1))
	l.fillOrder = int(ifd.uintOr(TagFillOrder, 1))
	switch pc := ifd.uintOr(TagPlanarConfiguration, 1); pc {
	case 1:
	case 2:
		l.planar = l.samplesPerPixel > 1
	default:
		return nil, newFormatErrorf("invalid PlanarConfiguration %d", pc)
	}

	if l.photometric == PhotometricYCbCr && !isJPEG(l.compression) {
		if err := l.resolveSubsampling(ifd); err != nil {
			return nil, err
		}
	}

	if limit := opts.LimitPixels; limit > 0 && int64(l.width)*int64(l.height)*int64(l.samplesPerPixel) > limit {
		return nil, newUnsupportedErrorf("image of %dx%d with %d samples per pixel exceeds the limit of %d samples", l.width, l.height, l.samplesPerPixel, limit)
	}

	if err := l.resolvePlanes(ifd, opts.LimitPixels); err != nil {
		return nil, err
	}
	if err := l.resolveUnits(ifd, opts); err != nil {
		return nil, err
	}

	return l, nil
}

func isJPEG(c Compression) bool {
	return c == CompressionJPEG || c == CompressionOldJPEG
}

// uniform returns the value of a per-sample tag, which must be the
// same for every sample. def is used if the tag is missing.
func uniform(ifd *IFD, tag Tag, def, samplesPerPixel int) (int, error) {
	f, found := ifd.Field(tag)
	if !found {
		return def, nil
	}
	vals := f.Uints()
	if len(vals) == 0 {
		return 0, newFormatErrorf("tag %s: expected unsigned integer values, got %s x %d", tag.Name(), f.Type, f.Count)
	}
	if len(vals) > samplesPerPixel {
		vals = vals[:samplesPerPixel]
	}
	for _, v := range vals[1:] {
		if v != vals[0] {
			return 0, newUnsupportedErrorf("tag %s: mixed values %v", tag.Name(), vals)
		}
	}
	return int(vals[0]), nil
}

func (l *layout) checkSampleFormat() error {
	bits := l.bitsPerSample
	switch l.sampleFormat {
	case SampleFormatUint, SampleFormatInt:
		if bits < 1 || bits > 32 {
			return newUnsupportedErrorf("%d bit %s samples", bits, l.sampleFormat)
		}
	case SampleFormatFloat:
		switch bits {
		case 16, 24, 32, 64:
		default:
			return newUnsupportedErrorf("%d bit float samples", bits)
		}
	default:
		return newUnsupportedErrorf("sample format %s", l.sampleFormat)
	}
	return nil
}

func (l *layout) resolveSubsampling(ifd *IFD) error {
	l.subH, l.subV = 2, 2
	if f, found := ifd.Field(TagYCbCrSubSampling); found {
		vals := f.Uints()
		if len(vals) != 2 {
			return newFormatErrorf("YCbCrSubSampling: expected 2 values, got %d", len(vals))
		}
		l.subH, l.subV = int(vals[0]), int(vals[1])
	}
	for _, s := range []int{l.subH, l.subV} {
		if s != 1 && s != 2 && s != 4 {
			return newFormatErrorf("invalid YCbCrSubSampling %d,%d", l.subH, l.subV)
		}
	}
	if l.subV > l.subH {
		return newFormatErrorf("invalid YCbCrSubSampling %d,%d: vertical exceeds horizontal", l.subH, l.subV)
	}
	if l.samplesPerPixel != 3 {
		return newUnsupportedErrorf("YCbCr with %d samples per pixel", l.samplesPerPixel)
	}
	if l.bitsPerSample != 8 {
		return newUnsupportedErrorf("YCbCr with %d bits per sample", l.bitsPerSample)
	}
	if l.subsampled() && l.predictor != 1 {
		return newUnsupportedErrorf("predictor %d with subsampled YCbCr", l.predictor)
	}
	return nil
}

func (l *layout) subsampled() bool {
	return l.subH > 1 || l.subV > 1
}

func (l *layout) resolvePlanes(ifd *IFD, limitPixels int64) error {
	var unitW, unitH int
	if ifd.IsTiled() {
		l.tiled = true
		tw, err := ifd.requiredUint(TagTileWidth)
		if err != nil {
			return err
		}
		th, err := ifd.requiredUint(TagTileLength)
		if err != nil {
			return err
		}
		if tw == 0 || th == 0 {
			return newFormatErrorf("invalid tile size %dx%d", tw, th)
		}
		// Tiles are allocated whole, whatever the image size.
		if limitPixels > 0 && int64(tw)*int64(th)*int64(l.samplesPerPixel) > limitPixels {
			return newUnsupportedErrorf("tile of %dx%d with %d samples per pixel exceeds the limit of %d samples", tw, th, l.samplesPerPixel, limitPixels)
		}
		unitW, unitH = int(tw), int(th)
		if unitW%l.subH != 0 || unitH%l.subV != 0 {
			return newFormatErrorf("tile size %dx%d is not a multiple of the YCbCr subsampling %d,%d", unitW, unitH, l.subH, l.subV)
		}
	} else {
		rps := int(ifd.uintOr(TagRowsPerStrip, uint32(l.height)))
		if rps == 0 || rps > l.height {
			rps = l.height
		}
		unitW, unitH = l.width, rps
		if rps < l.height && rps%l.subV != 0 {
			return newFormatErrorf("RowsPerStrip %d is not a multiple of the vertical YCbCr subsampling %d", rps, l.subV)
		}
	}

	if !l.planar {
		p := plane{
			width: l.width, height: l.height,
			unitWidth: unitW, unitHeight: unitH,
			blockW: 1, blockH: 1, blockSamples: l.samplesPerPixel,
			bits: l.bitsPerSample,
		}
		if l.photometric == PhotometricYCbCr && l.subsampled() {
			p.blockW, p.blockH = l.subH, l.subV
			p.blockSamples = l.subH*l.subV + 2
		}
		l.planes = []plane{p}
	} else {
		for i := range l.samplesPerPixel {
			p := plane{
				index: i,
				width: l.width, height: l.height,
				unitWidth: unitW, unitHeight: unitH,
				blockW: 1, blockH: 1, blockSamples: 1,
				bits: l.bitsPerSample,
			}
			if i > 0 && l.photometric == PhotometricYCbCr && l.subsampled() {
				p.width, p.height = ceilDiv(l.width, l.subH), ceilDiv(l.height, l.subV)
				p.unitHeight = ceilDiv(unitH, l.subV)
				if l.tiled {
					p.unitWidth = unitW / l.subH
				} else {
					p.unitWidth = p.width
				}
			}
			l.planes = append(l.planes, p)
		}
	}

	offset := 0
	for i := range l.planes {
		l.planes[i].offset = offset
		offset += l.planes[i].size()
	}

	return nil
}

// frameSize is the number of bytes needed to hold all planes.
func (l *layout) frameSize() int {
	last := l.planes[len(l.planes)-1]
	return last.offset + last.size()
}

func (l *layout) resolveUnits(ifd *IFD, opts Options) error {
	offsetsTag, countsTag := TagStripOffsets, TagStripByteCounts
	if l.tiled {
		offsetsTag, countsTag = TagTileOffsets, TagTileByteCounts
	}

	for _, p := range l.planes {
		across := ceilDiv(p.width, p.unitWidth)
		down := ceilDiv(p.height, p.unitHeight)
		for row := range down {
			for col := range across {
				u := unit{
					index:  len(l.units),
					plane:  p.index,
					col:    col,
					row:    row,
					width:  p.unitWidth,
					height: p.unitHeight,
				}
				if !l.tiled {
					u.height = min(p.unitHeight, p.height-row*p.unitHeight)
				}
				l.units = append(l.units, u)
			}
		}
	}

	offsetsField, found := ifd.Field(offsetsTag)
	if !found {
		return newFormatErrorf("missing required tag %s", offsetsTag.Name())
	}
	offsets := offsetsField.Uints()
	if len(offsets) == 0 {
		return newFormatErrorf("tag %s: expected unsigned integer values, got %s x %d", offsetsTag.Name(), offsetsField.Type, offsetsField.Count)
	}

	var counts []uint32
	if f, found := ifd.Field(countsTag); found {
		counts = f.Uints()
	} else if l.compression == CompressionNone {
		opts.Warnf("missing %s, deriving byte counts from the image geometry", countsTag.Name())
		counts = make([]uint32, len(l.units))
		for i, u := range l.units {
			counts[i] = uint32(u.decodedSize(l.planes[u.plane]))
		}
	} else {
		return newFormatErrorf("missing required tag %s", countsTag.Name())
	}

	if len(offsets) != len(counts) {
		return newFormatErrorf("%d %s but %d %s", len(offsets), offsetsTag.Name(), len(counts), countsTag.Name())
	}
	if len(offsets) < len(l.units) {
		return newFormatErrorf("%s has %d entries, the image geometry needs %d", offsetsTag.Name(), len(offsets), len(l.units))
	}
	if len(offsets) > len(l.units) {
		opts.Warnf("%s has %d entries, the image geometry needs %d, ignoring the rest", offsetsTag.Name(), len(offsets), len(l.units))
	}

	for i := range l.units {
		l.units[i].offset = int64(offsets[i])
		l.units[i].byteCount = int64(counts[i])
	}

	return nil
}
