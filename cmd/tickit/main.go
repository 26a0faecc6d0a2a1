package main

import (
	"os"

	"github.com/nlsnlaurensius/tickit/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
