package cmd

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/bep/tiffraster"
	"github.com/hashicorp/go-multierror"
	"github.com/nfnt/resize"
	"github.com/paulmatencio/s3c/gLog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	outDir  string
	maxSize int
	workers int

	missingOutputFolder = "missing output directory, please provide it with --out"

	exportCmd = &cobra.Command{
		Use:   "export FILE",
		Short: "Write every decodable page as page-<n>.png",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				return fmt.Errorf("%s", missingOutputFolder)
			}
			n := workers
			if !cmd.Flags().Changed("workers") {
				n = viper.GetInt("export.workers")
			}
			written, err := exportPages(args[0], exportConfig{dir: outDir, maxSize: maxSize, workers: n})
			gLog.Info.Printf("%s: wrote %d page(s) to %s", args[0], written, outDir)
			return err
		},
	}
)

func init() {
	RootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&outDir, "out", "o", "", "the output directory")
	exportCmd.Flags().IntVarP(&maxSize, "max-size", "m", 0, "if set, pages larger than this in either dimension are thumbnailed to fit")
	exportCmd.Flags().IntVarP(&workers, "workers", "w", 4, "number of pages to decode concurrently")
}

type exportConfig struct {
	dir     string
	maxSize int
	workers int
}

// exportPages decodes the pages of the file at path concurrently and writes
// each one as a PNG to cfg.dir. It returns the number of pages written and
// the combined errors of the pages that failed.
func exportPages(path string, cfg exportConfig) (int, error) {
	opts, err := decodeOptions(path)
	if err != nil {
		return 0, err
	}

	f, err := openTIFF(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	opts.R = f.reader()
	dirs, err := tiffraster.ReadDirectories(opts)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	if err := os.MkdirAll(cfg.dir, 0o755); err != nil {
		return 0, err
	}

	if cfg.workers < 1 {
		cfg.workers = 1
	}

	var (
		mu      sync.Mutex
		merr    *multierror.Error
		written int
		wg      sync.WaitGroup
		pages   = make(chan int)
	)

	for _, pe := range dirs.PageErrors {
		merr = multierror.Append(merr, pe)
	}

	for range cfg.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range pages {
				err := exportPage(f, dirs.IFDs[i], i, opts, cfg)
				mu.Lock()
				if err != nil {
					gLog.Error.Printf("%s: page %d: %v", path, i, err)
					merr = multierror.Append(merr, &tiffraster.PageError{Page: i, Err: err})
				} else {
					written++
				}
				mu.Unlock()
			}
		}()
	}

	for i := range dirs.IFDs {
		pages <- i
	}
	close(pages)
	wg.Wait()

	return written, merr.ErrorOrNil()
}

func exportPage(f *tiffFile, ifd *tiffraster.IFD, index int, opts tiffraster.Options, cfg exportConfig) error {
	pb, err := tiffraster.DecodePage(f.reader(), ifd, opts)
	if err != nil {
		return err
	}
	img, err := pb.Image()
	if err != nil {
		return err
	}
	img = thumbnail(img, cfg.maxSize)

	filename := filepath.Join(cfg.dir, fmt.Sprintf("page-%d.png", index))
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	gLog.Trace.Printf("wrote %s", filename)
	return out.Close()
}

func thumbnail(img image.Image, maxSize int) image.Image {
	if maxSize <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxSize && b.Dy() <= maxSize {
		return img
	}
	return resize.Thumbnail(uint(maxSize), uint(maxSize), img, resize.Lanczos3)
}
