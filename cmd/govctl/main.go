package main

import (
	"fmt"
	"os"

	"github.com/compound-finance/comet-governance/cmd/govctl/commands"
)

func main() {
	rootCmd := commands.BuildGovctlCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
