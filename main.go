package main

import (
	"os"

	"github.com/AlphaAutos/AlphaAutos/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
