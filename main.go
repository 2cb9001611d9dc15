package main

import "github.com/msomdec/tunebox/internal/cli"

func main() {
	cli.Execute()
}
