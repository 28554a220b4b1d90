//go:build mage

// Package main provides build targets for the tally project using Mage.
//
// Usage:
//
//	mage build          Compile the tally binary to bin/
//	mage test:all       Run all tests
//	mage test:cover     Run all tests with a coverage profile
//	mage lint           Run golangci-lint
//	mage clean          Remove build artifacts
//	mage install        Install tally to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "tally"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tally"
)

// Build compiles the tally binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}
