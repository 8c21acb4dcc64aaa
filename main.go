package main

import (
	"os"

	"github.com/nakamasato/cardiag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
