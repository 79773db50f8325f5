package main

import (
	"os"

	"github.com/imishinist/http-shortcuts/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
