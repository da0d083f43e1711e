// Command ncdump prints the header and, optionally, the data of a
// NetCDF-3 Classic or 64-bit-Offset file.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ncdump",
	Short: "Inspect NetCDF-3 files",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
		var err error
		cfg, err = loadConfig(configPath)
		return err
	},
}

var (
	verbose    bool
	configPath string
	cfg        Config
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each step to stderr")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a ncdump.toml settings file")
	rootCmd.AddCommand(headerCmd)
	rootCmd.AddCommand(dataCmd)
}
