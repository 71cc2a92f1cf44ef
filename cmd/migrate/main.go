// Command migrate runs schema operations for the API database.
package main

import (
	"flag"
	"fmt"
	"log"
	"sort"
	"strings"

	"devconnector/internal/config"
	"devconnector/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <auto|status>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dialector, err := database.Dialector(cfg)
	if err != nil {
		return err
	}
	db, err := database.Open(dialector)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "auto":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("automigrations applied")
	case "status":
		status := database.Status(db)
		tables := make([]string, 0, len(status))
		for table := range status {
			tables = append(tables, table)
		}
		sort.Strings(tables)
		for _, table := range tables {
			log.Printf("%-10s present=%t", table, status[table])
		}
	default:
		return usage()
	}
	return nil
}
