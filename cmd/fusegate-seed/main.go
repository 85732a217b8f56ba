// Command fusegate-seed provisions the document index and loads a YAML file
// of documents with their embeddings.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
