package main

import "github.com/tranvictor/bscscope/cmd"

func main() {
	cmd.Execute()
}
