// The main package for the mandiprices executable.
package main

import (
	"github.com/krishi-shayak/mandi-prices/cmd"
)

func main() {
	cmd.Execute()
}
