package main

import "github.com/nathanhack/raptorq/cmd"

func main() {
	cmd.Execute()
}
