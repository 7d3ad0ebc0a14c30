package main

import (
	"os"

	"transbridge/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
