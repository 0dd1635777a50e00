package main

import (
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/blackwell-systems/closetprune/internal/app"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
