package main

import "github.com/philipparndt/armeasure/cmd"

func main() {
	cmd.Execute()
}
