package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"portfolio/config"
	"portfolio/database"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5"
)

func main() {
	cfg := config.Load()
	fail := color.New(color.FgRed)
	ok := color.New(color.FgGreen)

	if !cfg.DatabaseConfigured() {
		fail.Println("DATABASE_URL not set")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		fail.Printf("Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(context.Background())

	migrations, err := database.Migrations()
	if err != nil {
		fail.Printf("Failed to read migrations: %v\n", err)
		os.Exit(1)
	}

	for _, m := range migrations {
		fmt.Printf("Running migration: %s\n", m.Name)

		if _, err := conn.Exec(ctx, m.SQL); err != nil {
			fail.Printf("Failed to execute %s: %v\n", m.Name, err)
			os.Exit(1)
		}

		ok.Printf("✓ %s\n", m.Name)
	}

	ok.Println("\nAll migrations completed!")
}
