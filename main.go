package main

import "github.com/oleksii-sytar/fincast/cmd"

func main() {
	cmd.Execute()
}
