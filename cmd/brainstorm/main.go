package main

import (
	"os"

	"github.com/hcnaf/Logging-MentoringProgram/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
