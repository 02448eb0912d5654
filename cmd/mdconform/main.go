package main

import (
	"os"

	"github.com/frherrer/mdconform/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
