package main

import (
	"fmt"
	"log"
	"os"

	"vokzal/internal/api"
	"vokzal/internal/config"
	"vokzal/internal/meta"
	"vokzal/internal/pg"
	"vokzal/internal/reference"
	"vokzal/internal/report"
	"vokzal/internal/store"
)

func main() {
	cfg := config.LoadWithPath("config.json")

	// 1. Загружаем документ метаданных (таблицы и поля форм)
	catalog, err := meta.Load(cfg.MetadataPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки метаданных: %v", err)
	}
	fmt.Printf("Загружено таблиц: %d\n", len(catalog.Tables()))

	// 2. Загружаем справочники фиксированных значений
	enums, err := reference.LoadEnumCatalog(cfg.EnumsDir)
	if err != nil {
		log.Fatalf("Ошибка загрузки справочников: %v", err)
	}
	fmt.Printf("Загружено справочников: %d\n", len(enums))

	// 3. Подключаемся к базе; без неё сессия не имеет смысла
	if cfg.DBURL == "" {
		log.Fatalf("Не задан адрес базы данных (-db или VOKZAL_DB_URL)")
	}
	db, err := pg.Open(cfg.DBURL)
	if err != nil {
		log.Fatalf("Не удалось подключиться к базе данных: %v", err)
	}
	if cfg.AutoMigrate {
		if err := pg.ApplyDDL(db, pg.DomainDDL()); err != nil {
			log.Fatalf("Ошибка применения DDL: %v", err)
		}
		fmt.Println("Предметные таблицы проверены/созданы")
	}

	// 4. Собираем ядро и запускаем API для поверхности отображения
	srv := api.NewServer(catalog, enums, cfg.MetadataPath, cfg.EnumsDir)
	st := store.New(db, srv)
	srv.Store = st
	srv.Reports = &report.Generator{DB: db, OutDir: cfg.ReportsDir, FontDir: cfg.FontDir}
	srv.Sessions = api.NewSessionRegistry(st)

	if err := os.MkdirAll(cfg.ReportsDir, 0o755); err != nil {
		log.Fatalf("Не удалось создать каталог отчетов %s: %v", cfg.ReportsDir, err)
	}

	fmt.Printf("Стартуем сервер Vokzal на :%s...\n", cfg.Port)
	if err := api.RunServer(":"+cfg.Port, srv); err != nil {
		log.Fatalf("Сервер остановился с ошибкой: %v", err)
	}
}
