package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/harrisonrobin/dayplan/cmd"
)

func main() {
	// Optional .env with DAYPLAN_* overrides.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}
	cmd.Execute()
}
