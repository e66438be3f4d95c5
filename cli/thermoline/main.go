package main

import (
	"os"

	thermolinecmder "github.com/thermolineco/thermoline/cmd/thermoline"
)

func main() {
	cmd := thermolinecmder.NewThermolineCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
