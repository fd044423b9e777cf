package main

import (
	"os"

	"github.com/rustyeddy/quantsim/cmd/quantsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
