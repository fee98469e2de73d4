package main

import (
	"context"
	"os"

	"github.com/shouni/nano-banana-cli/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), cli.NBP, os.Args[1:], cli.DefaultDeps()))
}
