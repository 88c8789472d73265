package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/darakelian/osrsprice/internal/cli"
	"github.com/darakelian/osrsprice/pkg/version"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := cli.NewRootCmd(version.GetVersion())
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitCode(err)
}

// exitCode maps an execution error to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}
