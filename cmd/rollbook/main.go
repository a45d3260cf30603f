// Command rollbook runs the student record menu and its scenario checker.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/rollbook/internal/cli"
)

func main() {
	err := cli.NewRootCommand().ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
