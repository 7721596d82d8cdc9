package main

import (
	"os"

	"github.com/gxquant/screener/cmd/screener/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
