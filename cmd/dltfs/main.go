package main

import "github.com/pojntfx/dltfs/cmd/dltfs/cmd"

func main() {
	cmd.Execute()
}
