package gb50011_test

import (
	"fmt"

	"github.com/alexiusacademia/goseis/internal/gb50011"
)

func ExampleLookup() {
	p, err := gb50011.Lookup(8, 2, "II", gb50011.Frequent)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Tg=%.2f s alpha_max=%.2f\n", p.Tg, p.AlphaMax)
	fmt.Printf("alpha(1.0 s)=%.4f\n", gb50011.Alpha(1.0, p, 0.05, false))

	// Output:
	// Tg=0.40 s alpha_max=0.16
	// alpha(1.0 s)=0.0701
}
