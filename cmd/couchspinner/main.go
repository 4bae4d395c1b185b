// Command couchspinner ingests couch-surfing data exports.
package main

import (
	"github.com/joho/godotenv"

	"github.com/pemre/couchspinner/internal/adapters/driving/cli"
)

func main() {
	// A .env file in the working directory may supply COUCHSPINNER_* overrides.
	_ = godotenv.Load()

	cli.Main()
}
