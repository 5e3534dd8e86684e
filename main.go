package main

import (
	"os"

	"github.com/fractulus/fractulus/cmd"
	fractulus "github.com/fractulus/fractulus/pkg"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(fractulus.ExitCode(err))
	}
}
