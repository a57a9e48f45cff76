package main

import "github.com/Cj-bc/piping-server/cmd"

func main() {
	cmd.Execute()
}
