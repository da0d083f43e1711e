package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/spatialmodel/netcdf3"
)

var headerCmd = &cobra.Command{
	Use:   "header [file]",
	Short: "Print a file's dimensions, global attributes and variables",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printHeader(args[0])
	},
}

func printHeader(path string) error {
	log.WithField("path", path).Debug("opening file")
	r, err := netcdf3.Open(afero.NewOsFs(), path)
	if err != nil {
		return err
	}
	defer r.Close()

	ds := r.DataSet()
	fmt.Printf("netcdf %s {\n", path)
	fmt.Println("dimensions:")
	for _, d := range ds.Dimensions() {
		if d.Unlimited() {
			fmt.Printf("\t%s = UNLIMITED ; // (%d currently)\n", d.Name(), ds.NumRecs())
			continue
		}
		size, _ := d.FixedSize()
		fmt.Printf("\t%s = %d ;\n", d.Name(), size)
	}

	fmt.Println("variables:")
	for _, v := range ds.Variables() {
		dimNames := make([]string, len(v.Dimensions()))
		for i, d := range v.Dimensions() {
			dimNames[i] = d.Name()
		}
		fmt.Printf("\t%s %s(%s) ;\n", v.Type(), v.Name(), joinNames(dimNames))
		for _, a := range v.Attributes() {
			fmt.Printf("\t\t%s:%s = %v ;\n", v.Name(), a.Name(), describeValues(a.Values()))
		}
	}

	if len(ds.GlobalAttributes()) > 0 {
		fmt.Println("\n// global attributes:")
		for _, a := range ds.GlobalAttributes() {
			fmt.Printf("\t\t:%s = %v ;\n", a.Name(), describeValues(a.Values()))
		}
	}
	fmt.Println("}")
	return nil
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

func describeValues(v netcdf3.Values) interface{} {
	switch v.Type() {
	case netcdf3.I8:
		s, _ := v.I8()
		return s
	case netcdf3.U8:
		s, _ := v.U8()
		return string(s)
	case netcdf3.I16:
		s, _ := v.I16()
		return s
	case netcdf3.I32:
		s, _ := v.I32()
		return s
	case netcdf3.F32:
		s, _ := v.F32()
		return roundedF32(s)
	case netcdf3.F64:
		s, _ := v.F64()
		return roundedF64(s)
	default:
		return nil
	}
}

// roundedF32 rounds s to cfg.DefaultPrecision significant digits when a
// config file set one, leaving full precision otherwise.
func roundedF32(s []float32) []float32 {
	if cfg.DefaultPrecision <= 0 {
		return s
	}
	out := make([]float32, len(s))
	for i, x := range s {
		r, _ := strconv.ParseFloat(strconv.FormatFloat(float64(x), 'g', cfg.DefaultPrecision, 32), 32)
		out[i] = float32(r)
	}
	return out
}

func roundedF64(s []float64) []float64 {
	if cfg.DefaultPrecision <= 0 {
		return s
	}
	out := make([]float64, len(s))
	for i, x := range s {
		out[i], _ = strconv.ParseFloat(strconv.FormatFloat(x, 'g', cfg.DefaultPrecision, 64), 64)
	}
	return out
}
