// Package main is the entry point for the suzu-rpg chat battle bot
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "suzu-rpg",
	Short: "Turn-based chat RPG battle engine",
	Long:  `suzu-rpg runs the chat RPG core: persistent characters, a monster catalog and turn-based battles driven by chat commands.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(playCmd)
}
