package main

import (
	"pummel/cmd"
)

func main() {
	cmd.Execute()
}
