package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bep/tiffraster"
	"github.com/paulmatencio/s3c/gLog"
	"github.com/spf13/viper"
	"golang.org/x/exp/mmap"
)

// tiffFile is a memory mapped TIFF file.
// Each call to reader returns an independent io.ReadSeeker.
type tiffFile struct {
	path string
	ra   *mmap.ReaderAt
}

func openTIFF(path string) (*tiffFile, error) {
	ra, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &tiffFile{path: path, ra: ra}, nil
}

func (f *tiffFile) reader() io.ReadSeeker {
	return io.NewSectionReader(f.ra, 0, int64(f.ra.Len()))
}

func (f *tiffFile) Close() error {
	return f.ra.Close()
}

// decodeOptions builds the decoder options from the config.
func decodeOptions(path string) (tiffraster.Options, error) {
	opts := tiffraster.Options{
		Timeout:     viper.GetDuration("decode.timeout"),
		LimitPages:  viper.GetInt("decode.limit_pages"),
		LimitPixels: viper.GetInt64("decode.limit_pixels"),
		Warnf: func(format string, args ...any) {
			gLog.Warning.Printf("%s: %s", path, fmt.Sprintf(format, args...))
		},
	}

	switch lzw := strings.ToLower(viper.GetString("decode.lzw")); lzw {
	case "", "tiff":
	case "generic":
		opts.Decoders = map[tiffraster.Compression]tiffraster.CompressionDecoder{
			tiffraster.CompressionLZW: tiffraster.NewLZWDecoder(tiffraster.LZWGeneric),
		}
	default:
		return opts, fmt.Errorf("invalid decode.lzw %q, must be tiff or generic", lzw)
	}

	return opts, nil
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case tiffraster.IsUnsupported(err):
		return "unsupported"
	case tiffraster.IsTruncated(err):
		return "truncated"
	case tiffraster.IsFormatError(err):
		return "format"
	default:
		return "error"
	}
}

func planarName(ifd *tiffraster.IFD) string {
	if f, ok := ifd.Field(tiffraster.TagPlanarConfiguration); ok {
		if v, _ := f.Uint(0); v == 2 {
			return "planar"
		}
	}
	return "chunky"
}

func layoutName(ifd *tiffraster.IFD) string {
	if ifd.IsTiled() {
		return "tiles"
	}
	return "strips"
}
