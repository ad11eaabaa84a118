package main

import (
	"context"
	"fmt"
	"os"

	"tempchat/cli"
)

const Version = "v0.1.0"

func main() {
	if err := cli.NewRootCmd(Version).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
