package main

import "github.com/xvierd/chronozen/cmd"

func main() {
	cmd.Execute()
}
