// Command regsel fits a multivariate linear regression over a whitespace delimited dataset and
// runs forward selection on the test residual sum of squares.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
