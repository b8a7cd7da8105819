// Package main is the entry point for reportctl.
package main

import (
	"context"
	"fmt"
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"github.com/crm-suite/backend/internal/cli"
)

func main() {
	_ = godotenv.Load()

	if err := cli.NewRootCmd(cli.DefaultDeps()).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
