package main

import "github.com/familyone/factory-ops/cmd"

func main() {
	cmd.Execute()
}
