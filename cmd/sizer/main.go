package main

import (
	"os"

	"github.com/morningtrading/sizer/cmd/sizer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
