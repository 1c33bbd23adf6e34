package main

import "github.com/pders01/figma-sync/cmd"

func main() {
	cmd.Execute()
}
