package main

import (
	"os"

	"github.com/dgallion1/aitrpg/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
