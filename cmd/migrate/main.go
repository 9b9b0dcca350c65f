package main

import (
	"file-service/config"
	"file-service/internal/db/migrate"
	"flag"
	"log"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	direction := flag.String("direction", "up", "направление миграций: up или down")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	if err := migrate.Run(cfg.DatabaseConfig.Driver, cfg.DatabaseConfig.MigrationURL, *direction); err != nil {
		log.Fatalf("Ошибка миграции: %v", err)
	}
	log.Printf("миграции применены (%s)", *direction)
}
