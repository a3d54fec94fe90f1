package main

import "github.com/realmforge/rwgen/cmd"

func main() {
	cmd.Execute()
}
