//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search builds the CLI and runs one search against the live collection
// APIs, for example: mage search "cold war posters".
func Search(theme string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "search", theme)
}

// Periods builds the CLI and prints the period catalog.
func Periods() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "periods")
}
