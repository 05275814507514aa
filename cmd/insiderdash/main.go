package main

import (
	"os"

	"insiderdash/cmd/insiderdash/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
