// Package cmd holds the tiffpages commands.
package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/paulmatencio/s3c/gLog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	config   string
	verbose  bool
	loglevel int

	missingInput = "missing input file, please provide the path of a TIFF file"

	RootCmd = &cobra.Command{
		Use:           "tiffpages",
		Short:         "Inspect and export the pages of TIFF files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command and exits with status 1 on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	RootCmd.PersistentFlags().IntVarP(&loglevel, "loglevel", "l", 0, "output level of logs (1: error, 2: warning, 3: info, 4: trace, 5: debug)")
	RootCmd.PersistentFlags().StringVarP(&config, "config", "c", "", "full path of the config file; default $HOME/.tiffpages/config.yaml")

	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("loglevel", RootCmd.PersistentFlags().Lookup("loglevel"))

	viper.SetDefault("logging.output", "terminal")
	viper.SetDefault("logging.log_level", 2)
	viper.SetDefault("decode.timeout", "0s")
	viper.SetDefault("decode.limit_pages", 0)
	viper.SetDefault("decode.limit_pixels", 0)
	viper.SetDefault("decode.lzw", "tiff")
	viper.SetDefault("export.workers", 4)

	cobra.OnInitialize(initConfig)
}

// initConfig reads in the config file and environment variables if set.
func initConfig() {
	if config != "" {
		viper.SetConfigFile(config)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.Fatalln(err)
		}
		viper.AddConfigPath(filepath.Join(home, ".tiffpages"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("tiffpages")
	viper.AutomaticEnv()

	configErr := viper.ReadInConfig()

	if loglevel == 0 {
		loglevel = viper.GetInt("logging.log_level")
	}
	if viper.GetBool("verbose") {
		loglevel = 4
	}
	gLog.InitLog(RootCmd.Name(), loglevel, viper.GetString("logging.output"))

	if configErr == nil {
		gLog.Trace.Printf("Using config file: %s", viper.ConfigFileUsed())
	} else if config != "" {
		gLog.Warning.Printf("Error %v reading config file %s", configErr, config)
	}
}
