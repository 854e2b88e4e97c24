package main

import (
	"os"

	"github.com/pfrederiksen/tvfixtures/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
