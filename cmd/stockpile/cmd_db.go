package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/stockpile/config"
	"github.com/shashiranjanraj/stockpile/database/seeders"
	"github.com/shashiranjanraj/stockpile/pkg/database"
	"github.com/shashiranjanraj/stockpile/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return database.Connect()
}

// stockpile migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		fmt.Println("Running migrations…")
		return migration.New(db).Run()
	},
}

// stockpile migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		fmt.Println("Rolling back last batch…")
		return migration.New(db).Rollback()
	},
}

// stockpile migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		return migration.New(db).Status()
	},
}

// stockpile seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := bootDB()
		if err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.RunAll(db)
	},
}
