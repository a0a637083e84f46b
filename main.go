package main

import "github.com/vitahq/vita/cmd"

func main() {
	cmd.Execute()
}
