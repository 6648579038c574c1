package main

import "github.com/kamal-hamza/extrude-cli/cmd"

func main() {
	cmd.Execute()
}
