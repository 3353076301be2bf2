//go:build mage

// Package main provides build targets for npuzzle using Mage.
//
// Usage:
//
//	mage build             Compile npuzzle to bin/
//	mage test              Run unit tests
//	mage testIntegration   Run integration tests (needs NPUZZLE_TEST_REDIS / NPUZZLE_TEST_MONGO)
//	mage lint              Run golangci-lint
//	mage clean             Remove build artifacts
//	mage install           Install npuzzle to GOPATH/bin
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binLint    = "golangci-lint"
	binaryName = "npuzzle"
	binaryDir  = "bin"
	cmdDir     = "./cmd/npuzzle"
	pkgInfo    = "github.com/matzehuels/npuzzle/pkg/buildinfo"
)

// ldflags stamps version information into pkg/buildinfo.
func ldflags() string {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	commit, err := sh.Output("git", "rev-parse", "HEAD")
	if err != nil {
		commit = "none"
	}
	date := time.Now().UTC().Format(time.RFC3339)
	return strings.Join([]string{
		fmt.Sprintf("-X %s.Version=%s", pkgInfo, version),
		fmt.Sprintf("-X %s.Commit=%s", pkgInfo, commit),
		fmt.Sprintf("-X %s.Date=%s", pkgInfo, date),
	}, " ")
}

// Build compiles the npuzzle binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-ldflags", ldflags(), "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs unit tests with the race detector.
func Test() error {
	return sh.RunV(binGo, "test", "-race", "./...")
}

// TestIntegration runs tests behind the integration build tag.
func TestIntegration() error {
	mg.Deps(Build)
	return sh.RunV(binGo, "test", "-tags", "integration", "./...")
}

// Lint runs golangci-lint.
func Lint() error {
	return sh.RunV(binLint, "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	return os.RemoveAll(binaryDir)
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}
