//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const sampleList = `Masala Chai
Mango Lassi
Paneer Tikka
Veg Biryani
Gulab Jamun
`

// Sample renders a card document from a built-in item list into output/.
func Sample() error {
	mg.Deps(Build, Init)
	input := filepath.Join("samples", "menu.txt")
	if _, err := os.Stat(input); os.IsNotExist(err) {
		if err := os.WriteFile(input, []byte(sampleList), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", input, err)
		}
	}
	out := filepath.Join("output", "sample.docx")
	return sh.RunV(filepath.Join(binDir, binName), "render", input, "-o", out, "--no-history")
}

// Serve builds the CLI and runs the HTTP server on :8000.
func Serve() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "serve", "--log-pretty")
}
