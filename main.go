package main

import (
	"os"

	"github.com/authcore/authcore/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
