package response_test

import (
	"fmt"

	"github.com/alexiusacademia/goseis/internal/response"
)

func ExampleDefaultPeriods() {
	periods, err := response.DefaultPeriods(0.1, 3, 5, response.MixedSpacing)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, p := range periods {
		fmt.Printf("%.4f ", p)
	}
	fmt.Println()
	// Output:
	// 0.1000 1.0000 1.6667 2.3333 3.0000
}
