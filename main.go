package main

import (
	"fmt"

	"github.com/trechriron/agent-arcade-trentin/commands"
)

// main entry point to the arcade CLI
func main() {
	rootCommand := commands.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
	}
}
