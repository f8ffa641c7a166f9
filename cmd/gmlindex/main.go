package main

import (
	"os"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/cmd/gmlindex"
)

func main() {
	os.Exit(gmlindex.Run(os.Args[1:]))
}
