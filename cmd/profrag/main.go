package main

import (
	"os"

	"github.com/kailas-cloud/profrag/cmd/profrag/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
