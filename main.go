package main

import (
	"fmt"
	"os"

	"github.com/sweepkit/sweep/cmd/cli"
	"github.com/sweepkit/sweep/internal/cleanup"
)

const (
	exitErrorTemplateConstant      = "%v\n"
	baseResolutionExitCodeConstant = 255
	generalFailureExitCodeConstant = 1
)

// main executes the sweep command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		if cleanup.IsBaseResolutionError(executionError) {
			os.Exit(baseResolutionExitCodeConstant)
		}
		os.Exit(generalFailureExitCodeConstant)
	}
}
