package ratio_test

import (
	"fmt"

	"github.com/cwbudde/algo-solarfit/stats/ratio"
)

func ExampleCalculate() {
	s := ratio.Calculate([]float64{1, 1.005, 0.95, 2})
	fmt.Printf("valid=%d within1=%.2f within10=%.2f worst=%.0f%%\n", s.Valid, s.Within1, s.Within10, s.WorstPercent())

	// Output:
	// valid=4 within1=0.50 within10=0.75 worst=100%
}
