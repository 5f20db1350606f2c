// Command tiffpages reports and exports the pages of TIFF files.
package main

import "github.com/bep/tiffraster/cmd/tiffpages/cmd"

func main() {
	cmd.Execute()
}
