package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/netcdf3"
)

var dataCmd = &cobra.Command{
	Use:   "data [file] [variable]",
	Short: "Print one variable's data",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printData(args[0], args[1])
	},
}

func printData(path, varName string) error {
	r, err := netcdf3.Open(afero.NewOsFs(), path)
	if err != nil {
		return err
	}
	defer r.Close()

	log.WithField("variable", varName).Debug("reading variable")
	values, err := r.ReadVar(varName)
	if err != nil {
		return err
	}
	fmt.Println(describeValues(values))
	return nil
}
