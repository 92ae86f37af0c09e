package main

import (
	"flag"
	"log"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/pkg/database"
)

func main() {
	reset := flag.Bool("reset", false, "drop the turn archive table before migrating")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is not set; nothing to migrate")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.Options{MaxOpenConns: 2})
	if err != nil {
		log.Fatalf("connect: %v", err)
	}

	// turn_archives.id defaults to gen_random_uuid()
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		log.Printf("pgcrypto unavailable, continuing: %v", err)
	}

	if *reset {
		log.Println("Dropping turn archive table")
		if err := db.Migrator().DropTable(&model.TurnArchive{}); err != nil {
			log.Fatalf("drop: %v", err)
		}
	}

	if err := db.AutoMigrate(&model.TurnArchive{}); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("Turn archive schema is up to date")
}
