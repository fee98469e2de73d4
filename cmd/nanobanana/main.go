package main

import (
	"context"
	"os"

	"github.com/shouni/nano-banana-cli/internal/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), cli.Nanobanana, os.Args[1:], cli.DefaultDeps()))
}
