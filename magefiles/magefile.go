//go:build mage
// +build mage

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/magefile/mage/mg"
)

// Default target to run when none is specified
var Default = Build

// Build compiles every command into ./bin
func Build() error {
	mg.Deps(BuildDataMC, BuildLTBinned, BuildGammaJetCfg)
	fmt.Println("Compilation finished")
	return nil
}

func BuildDataMC() error {
	return build("datamc")
}

func BuildLTBinned() error {
	return build("ltbinned")
}

func BuildGammaJetCfg() error {
	return build("gammajetcfg")
}

// Test runs the unit tests of all packages
func Test() error {
	fmt.Println("Running tests...")
	return goCmd("test", "./...")
}

func build(name string) error {
	fmt.Printf("Building %s executable...\n", name)
	return goCmd("build", "-o", "./bin/"+name, "./"+name)
}

func goCmd(args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
