// Command avenassist is the support FAQ assistant CLI.
package main

import (
	"os"

	"github.com/avenhq/avenassist/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
