package main

import (
	"os"

	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/cmd/gmlrename"
)

func main() {
	os.Exit(gmlrename.Run(os.Args[1:]))
}
