package main

import (
	"os"

	"github.com/hedgelab/deltahedge/cmd/deltahedge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
