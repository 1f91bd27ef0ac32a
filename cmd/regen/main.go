package main

import (
	"github.com/tacogips/regen/internal/cli"
)

func main() {
	cli.Execute()
}
