package main

import (
	"errors"
	"flag"
	"log"

	"mydev-wallet/migrations"
	"mydev-wallet/pkg/config"
	"mydev-wallet/pkg/database"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

func main() {
	var command string
	flag.StringVar(&command, "cmd", "up", "Command to run: up, down, version")
	flag.Parse()

	// 加载配置
	config.Init()

	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		log.Fatalf("Migration source failed: %v", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, database.PostgresURL(config.Global.DB))
	if err != nil {
		log.Fatalf("Migration init failed: %v", err)
	}
	defer m.Close()

	switch command {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("Migration up failed: %v", err)
		}
		log.Println("Migration up done")
	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Println("Migration down done")
	case "version":
		v, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			log.Fatalf("Migration version failed: %v", err)
		}
		log.Printf("Migration version: %d (dirty=%v)", v, dirty)
	default:
		log.Fatalf("Unknown command: %s", command)
	}
}
