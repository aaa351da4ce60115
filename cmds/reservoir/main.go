package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/mandelsoft/fakir/pkg/fakir"
	"github.com/mandelsoft/fakir/pkg/random"
	"github.com/mandelsoft/fakir/pkg/render"
)

func Error(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}

var columns = []string{"formation", "area", "height", "volume", "phase", "price", "area_iid", "price_iid"}

// Reservoir builds the row node for oil and gas reservoirs.
// Volume is correlated with area and height, the price range
// depends on the phase.
func Reservoir() (fakir.Node[fakir.Tuple], error) {
	animal, err := fakir.Choice([]string{"Wolf", "Eagle", "Cheetah"})
	if err != nil {
		return fakir.Node[fakir.Tuple]{}, err
	}
	geo, err := fakir.Choice([]string{"Outcrop", "Karst", "Tundra"})
	if err != nil {
		return fakir.Node[fakir.Tuple]{}, err
	}
	formation := fakir.Add(fakir.Add(animal, fakir.Fixed(" ")), geo)

	area, err := fakir.Normal(40, 10)
	if err != nil {
		return fakir.Node[fakir.Tuple]{}, err
	}
	height, err := fakir.Uniform(10, 100)
	if err != nil {
		return fakir.Node[fakir.Tuple]{}, err
	}
	volume := fakir.Mul(area, height)

	phase, err := fakir.Choice([]string{"Oil", "Gas"})
	if err != nil {
		return fakir.Node[fakir.Tuple]{}, err
	}
	oil, err := fakir.Uniform(30, 60)
	if err != nil {
		return fakir.Node[fakir.Tuple]{}, err
	}
	gas, err := fakir.Uniform(1.5, 4.5)
	if err != nil {
		return fakir.Node[fakir.Tuple]{}, err
	}
	price := fakir.IfElse(fakir.Eq(phase, fakir.Fixed("Oil")), oil, gas)

	return fakir.Tupled(formation, area, height, volume, phase, price, area.IID(), price.IID()), nil
}

func main() {
	var seed int64
	var rows int
	var format string

	flags := pflag.NewFlagSet("reservoir", pflag.ExitOnError)

	flags.Int64VarP(&seed, "seed", "s", 12345, "random seed")
	flags.IntVarP(&rows, "rows", "n", 100, "number of rows")
	flags.StringVarP(&format, "output", "o", "text", "output format")

	err := flags.Parse(os.Args[1:])
	if err != nil {
		Error("invalid arguments: %s", err)
	}

	row, err := Reservoir()
	if err != nil {
		Error("cannot create model: %s", err)
	}
	w, err := render.New(format, os.Stdout, columns)
	if err != nil {
		Error("%s", err)
	}

	src := random.New(seed)
	for i := 0; i < rows; i++ {
		r, err := row.Generate(src)
		if err != nil {
			Error("row %d: %s", i+1, err)
		}
		err = w.Write(r)
		if err != nil {
			Error("%s", err)
		}
	}
	err = w.Flush()
	if err != nil {
		Error("%s", err)
	}
}
