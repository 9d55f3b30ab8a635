package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and seeders so their init() funcs register them.
	_ "github.com/shashiranjanraj/stockpile/database/migrations"
	_ "github.com/shashiranjanraj/stockpile/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stockpile",
	Short: "Stockpile inventory catalogue service",
	Long:  "Stockpile manages an inventory catalogue: products, stock levels, restock flags, and admin login.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
