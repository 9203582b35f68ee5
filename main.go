package main

import "github.com/flowviz-labs/flowviz/cmd"

func main() {
	cmd.Execute()
}
