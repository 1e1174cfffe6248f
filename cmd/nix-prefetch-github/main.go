package main

import "github.com/cbout22/nix-prefetch-github/internal/cli"

func main() {
	cli.Execute()
}
