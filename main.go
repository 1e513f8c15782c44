package main

import (
	"os"

	"github.com/AnyUserName/picpack/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
