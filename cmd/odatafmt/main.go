package main

import (
	"github.com/neuronlabs/neuron-odata/cmd/odatafmt/cmd"
)

func main() {
	cmd.Execute()
}
