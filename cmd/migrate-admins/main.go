package main

import (
	"context"
	"flag"
	"log"
	"time"

	"bhraman/config"
	"bhraman/db"
	"bhraman/migrate"
	"bhraman/users"

	"github.com/joho/godotenv"
)

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "overall migration timeout")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}
	cfg, err := config.LoadStorage()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DBDriver != "mongo" {
		log.Fatalf("migration needs DB_DRIVER=mongo, got %q", cfg.DBDriver)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool := db.NewPool(db.Options{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDB,
		MaxAttempts: cfg.DBMaxAttempts,
		Cooldown:    cfg.DBCooldown,
	})
	defer func() {
		if err := pool.Shutdown(context.Background()); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()
	if _, err := pool.Connect(ctx); err != nil {
		log.Fatalf("connect: %v", err)
	}
	if err := db.EnsureIndexes(ctx, pool); err != nil {
		log.Fatalf("indexes: %v", err)
	}

	res, err := migrate.Run(ctx, migrate.NewMongoSource(pool), users.NewMongoStore(pool), time.Now())
	if err != nil {
		log.Fatalf("migrate admins: %v (scanned=%d promoted=%d created=%d)", err, res.Scanned, res.Promoted, res.Created)
	}
	log.Printf("migrate admins done scanned=%d promoted=%d created=%d skipped=%d",
		res.Scanned, res.Promoted, res.Created, res.Skipped)
}
