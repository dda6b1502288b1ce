package main

import (
	"github.com/girderlab/girder/internal/cli"
)

func main() {
	cli.Execute()
}
