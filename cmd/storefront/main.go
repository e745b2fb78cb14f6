package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/dkroy/storefront-golang/internal/cli"
	"github.com/dkroy/storefront-golang/internal/database"
	"github.com/dkroy/storefront-golang/internal/store"
)

func main() {
	initDB := flag.Bool("init", false, "create the schema and seed demo data before starting")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if *initDB {
		if err := database.InitSchema(ctx, db); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		if err := database.Seed(ctx, db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
		log.Println("Schema initialized and demo data seeded")
	}

	app := cli.New(store.New(db), os.Stdin, os.Stdout)
	if err := app.Run(ctx); err != nil {
		log.Fatalf("Storefront exited with error: %v", err)
	}
}
