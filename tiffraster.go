// Package tiffraster decodes the pages of TIFF streams into typed pixel buffers.
//
// It parses the IFD chain, decodes the typed fields, reads and decompresses
// strips or tiles, reverses the horizontal predictor, reassembles chunky and
// planar data and reconstructs palette, gray, RGB, CMYK and YCbCr pixels.
// A broken page is reported as a PageError and does not stop the other pages
// from decoding.
package tiffraster

import (
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Options contains the options for Decode, ReadDirectories and DecodePage.
type Options struct {
	// The Reader (typically a *os.File) to read the TIFF stream from.
	R io.ReadSeeker

	// Decoders adds or replaces compression decoders, e.g. to plug in JPEG
	// or to use NewLZWDecoder(LZWGeneric) for non conforming LZW writers.
	// A nil value removes the built-in decoder for that scheme.
	Decoders map[Compression]CompressionDecoder

	// If set, pages for which this function returns false are skipped.
	// Skipped pages are neither in DecodeResult.Pages nor in DecodeResult.PageErrors.
	ShouldDecodePage func(page int, ifd *IFD) bool

	// If set, only the IFD chain is read and Page.Pixels is left nil.
	DirectoriesOnly bool

	// Warnf will be called for each warning.
	Warnf func(string, ...any)

	// Timeout is the maximum time the decoder will spend on the stream.
	// Mostly useful for testing.
	// If set to 0, the decoder will not time out.
	Timeout time.Duration

	// LimitNumFields is the maximum number of fields to read across all IFDs.
	// Default value is 5000.
	LimitNumFields uint32

	// LimitFieldSize is the maximum size in bytes of a field value to read.
	// Fields larger than this are skipped with a warning.
	// Default value is 16 MiB.
	LimitFieldSize uint32

	// LimitPages is the maximum number of IFDs to follow in the chain.
	// Default value is 1000.
	LimitPages int

	// LimitPixels is the maximum number of samples (width x height x samples per pixel)
	// of a page. Larger pages fail with an unsupported error.
	// Default value is 1<<28.
	LimitPixels int64
}

const (
	defaultLimitNumFields = 5000
	defaultLimitFieldSize = 16 << 20
	defaultLimitPages     = 1000
	defaultLimitPixels    = 1 << 28
)

func (o *Options) init() {
	if o.LimitNumFields == 0 {
		o.LimitNumFields = defaultLimitNumFields
	}
	if o.LimitFieldSize == 0 {
		o.LimitFieldSize = defaultLimitFieldSize
	}
	if o.LimitPages == 0 {
		o.LimitPages = defaultLimitPages
	}
	if o.LimitPixels == 0 {
		o.LimitPixels = defaultLimitPixels
	}
	if o.Warnf == nil {
		o.Warnf = func(string, ...any) {}
	}
	if o.ShouldDecodePage == nil {
		o.ShouldDecodePage = func(int, *IFD) bool { return true }
	}
}

func (o *Options) decoders() map[Compression]CompressionDecoder {
	m := defaultDecoders()
	maps.Copy(m, o.Decoders)
	return m
}

// DecodeResult contains the result of a Decode operation.
type DecodeResult struct {
	ByteOrder binary.ByteOrder

	// Pages holds the successfully decoded pages in chain order.
	Pages []Page

	// PageErrors holds one error per page that failed, in chain order.
	PageErrors []*PageError
}

// Err returns the page errors combined into one error, nil if there are none.
func (r DecodeResult) Err() error {
	var merr *multierror.Error
	for _, pe := range r.PageErrors {
		merr = multierror.Append(merr, pe)
	}
	return merr.ErrorOrNil()
}

// Page is one decoded page.
type Page struct {
	// Index is the zero-based position of the page in the IFD chain.
	Index int

	IFD *IFD

	// Pixels is nil if Options.DirectoriesOnly is set.
	Pixels *PixelBuffer
}

// Decode reads all pages from opts.R.
//
// The returned error is only set if the stream as a whole could not be read,
// e.g. it is not a TIFF stream or the timeout expired. Failures of
// individual pages are collected in DecodeResult.PageErrors.
func Decode(opts Options) (result DecodeResult, err error) {
	if opts.R == nil {
		return result, fmt.Errorf("no reader provided")
	}
	opts.init()

	decode := func() (res DecodeResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = errFromRecover(r, func() error { return nil })
			}
		}()
		return decodePages(opts)
	}

	if opts.Timeout > 0 {
		type decodeResult struct {
			res DecodeResult
			err error
		}
		resc := make(chan decodeResult, 1)
		go func() {
			res, err := decode()
			resc <- decodeResult{res, err}
		}()
		select {
		case <-time.After(opts.Timeout):
			return result, fmt.Errorf("timed out after %s", opts.Timeout)
		case r := <-resc:
			return r.res, r.err
		}
	}

	return decode()
}

func decodePages(opts Options) (DecodeResult, error) {
	dirs, err := newDirectoryParser(opts).parse()
	if err != nil {
		return DecodeResult{}, err
	}

	result := DecodeResult{ByteOrder: dirs.ByteOrder}
	decoders := opts.decoders()

	for i, ifd := range dirs.IFDs {
		if !opts.ShouldDecodePage(i, ifd) {
			continue
		}
		page := Page{Index: i, IFD: ifd}
		if !opts.DirectoriesOnly {
			pixels, err := decodePage(opts.R, ifd, opts, decoders)
			if err != nil {
				result.PageErrors = append(result.PageErrors, &PageError{Page: i, Err: err})
				continue
			}
			page.Pixels = pixels
		}
		result.Pages = append(result.Pages, page)
	}

	// The IFD that ended the chain comes after all parsed pages.
	result.PageErrors = append(result.PageErrors, dirs.PageErrors...)

	return result, nil
}

// ReadDirectories reads the header and the IFD chain of opts.R without decoding any pixels.
func ReadDirectories(opts Options) (Directories, error) {
	if opts.R == nil {
		return Directories{}, fmt.Errorf("no reader provided")
	}
	opts.init()
	return newDirectoryParser(opts).parse()
}

// DecodePage decodes the pixels of one page described by ifd, which must
// have been read from r. opts.R is ignored.
//
// Pages can be decoded concurrently as long as each goroutine uses its own r.
func DecodePage(r io.ReadSeeker, ifd *IFD, opts Options) (*PixelBuffer, error) {
	if r == nil {
		return nil, fmt.Errorf("no reader provided")
	}
	opts.init()
	return decodePage(r, ifd, opts, opts.decoders())
}

func decodePage(r io.ReadSeeker, ifd *IFD, opts Options, decoders map[Compression]CompressionDecoder) (pb *PixelBuffer, err error) {
	if ifd.Namespace != NamespaceImage {
		return nil, newFormatErrorf("%s IFD does not describe an image", ifd.Namespace)
	}

	defer func() {
		if r := recover(); r != nil {
			pb = nil
			err = errFromRecover(r, func() error { return nil })
		}
	}()

	l, err := newLayout(ifd, opts)
	if err != nil {
		return nil, err
	}

	a := &assembler{
		streamReader: newStreamReader(r, ifd.ByteOrder),
		ifd:          ifd,
		layout:       l,
		decoders:     decoders,
		warnf:        opts.Warnf,
	}
	fr, err := a.assemble()
	if err != nil {
		return nil, err
	}

	rc := &reconstructor{ifd: ifd, layout: l, frame: fr}
	return rc.reconstruct()
}
