package main

import "github.com/brogergvhs/revimg/cmd"

func main() {
	cmd.Execute()
}
