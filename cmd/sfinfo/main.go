package main

import "github.com/aspect-build/sndfile-go/internal/cli"

func main() {
	cli.Execute()
}
