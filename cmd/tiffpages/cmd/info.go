package cmd

import (
	"fmt"
	"io"

	"github.com/bep/tiffraster"
	"github.com/paulmatencio/s3c/gLog"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "Print one line per page with its geometry, encoding and decode status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if args[0] == "" {
			return fmt.Errorf("%s", missingInput)
		}
		return writeInfo(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	RootCmd.AddCommand(infoCmd)
}

// writeInfo decodes every page of the file at path and reports it to w.
// It returns an error if any page failed.
func writeInfo(w io.Writer, path string) error {
	opts, err := decodeOptions(path)
	if err != nil {
		return err
	}

	f, err := openTIFF(path)
	if err != nil {
		return err
	}
	defer f.Close()

	opts.R = f.reader()
	dirs, err := tiffraster.ReadDirectories(opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	gLog.Trace.Printf("%s: %s byte order, %d pages", path, dirs.ByteOrder, len(dirs.IFDs))

	var failed int
	for i, ifd := range dirs.IFDs {
		_, err := tiffraster.DecodePage(f.reader(), ifd, opts)
		status := errorKind(err)
		if err != nil {
			failed++
			status = fmt.Sprintf("%s: %s", status, err)
		}
		fmt.Fprintf(w, "%d\t%dx%d\t%s\t%s\t%s\t%s\t%s\n",
			i, ifd.Width(), ifd.Height(), ifd.Photometric(), ifd.Compression(), planarName(ifd), layoutName(ifd), status)
	}
	for _, pe := range dirs.PageErrors {
		failed++
		fmt.Fprintf(w, "%d\t-\t-\t-\t-\t-\t%s: %s\n", pe.Page, errorKind(pe), pe.Err)
	}

	if failed > 0 {
		return fmt.Errorf("%s: %d page(s) failed", path, failed)
	}
	return nil
}
