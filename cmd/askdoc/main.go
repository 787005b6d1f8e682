// Command askdoc is a local-first study assistant: it ingests documents,
// indexes them for hybrid retrieval, and answers questions about them.
package main

import (
	"os"

	"github.com/custodia-labs/askdoc-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
