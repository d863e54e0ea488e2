package config

import (
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

type Config struct {
	Port         string `json:"port"`
	MetadataPath string `json:"metadataPath"` // табличные дескрипторы
	EnumsDir     string `json:"enumsDir"`     // справочники фиксированных значений
	DBURL        string `json:"dbUrl"`
	AutoMigrate  bool   `json:"autoMigrate"` // создать недостающие предметные таблицы

	// Вывод отчётов
	ReportsDir string `json:"reportsDir"` // куда писать PDF
	FontDir    string `json:"fontDir"`    // кириллический TTF для отчётов
}

func def() Config {
	return Config{
		Port:         "8080",
		MetadataPath: "metadata/table_metadata.json",
		EnumsDir:     "reference/enums",
		DBURL:        "",
		AutoMigrate:  false,

		ReportsDir: desktopDir(),
		FontDir:    "fonts",
	}
}

// по умолчанию отчёты ложатся на рабочий стол, как в настольной версии
func desktopDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Desktop")
}

func loadJSON(path string) (Config, error) {
	c := def()
	b, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := json.Unmarshal(b, &c); err != nil {
		return c, err
	}
	return c, nil
}

func getenv(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getenvBool(k string, fallback bool) bool {
	if v, ok := os.LookupEnv(k); ok {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "1" || v == "true" || v == "yes" {
			return true
		}
		if v == "0" || v == "false" || v == "no" {
			return false
		}
	}
	return fallback
}

// fromFileAndEnv — первые два слоя каскада: JSON (если файл существует)
// поверх дефолтов, затем ENV.
func fromFileAndEnv(jsonPath string) Config {
	cfg := def()

	if st, err := os.Stat(jsonPath); err == nil && !st.IsDir() {
		if c2, err := loadJSON(jsonPath); err == nil {
			cfg = c2
		}
	}

	cfg.Port = getenv("VOKZAL_PORT", cfg.Port)
	cfg.MetadataPath = getenv("VOKZAL_METADATA", cfg.MetadataPath)
	cfg.EnumsDir = getenv("VOKZAL_ENUMS_DIR", cfg.EnumsDir)
	cfg.DBURL = getenv("VOKZAL_DB_URL", cfg.DBURL)
	cfg.AutoMigrate = getenvBool("VOKZAL_AUTO_MIGRATE", cfg.AutoMigrate)
	cfg.ReportsDir = getenv("VOKZAL_REPORTS_DIR", cfg.ReportsDir)
	cfg.FontDir = getenv("VOKZAL_FONT_DIR", cfg.FontDir)
	return cfg
}

func parseBool(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "true") || s == "1" || strings.EqualFold(s, "yes")
}

// LoadWithPath читает JSON по указанному пути, потом применяет ENV и флаги.
// Флаги регистрируются на глобальном FlagSet ровно один раз: если через
// -config передали другой файл, он перечитывается без повторной
// регистрации, а поверх применяются только явно переданные флаги.
func LoadWithPath(jsonPath string) Config {
	cfg := fromFileAndEnv(jsonPath)

	// Flags overrides
	configPath := flag.String("config", jsonPath, "Path to config JSON")
	port := flag.String("port", cfg.Port, "HTTP port")
	metaPath := flag.String("metadata", cfg.MetadataPath, "Path to table_metadata.json")
	enums := flag.String("enums", cfg.EnumsDir, "Path to enums directory")
	db := flag.String("db", cfg.DBURL, "Postgres URL")
	auto := flag.String("auto-migrate", strconv.FormatBool(cfg.AutoMigrate), "Create missing domain tables (true/false)")
	reports := flag.String("reports-dir", cfg.ReportsDir, "Directory for generated PDF reports")
	fonts := flag.String("font-dir", cfg.FontDir, "Directory with cyrillic TTF for reports")

	flag.Parse()

	if *configPath != jsonPath {
		cfg = fromFileAndEnv(*configPath)
		// из флагов берём только явно переданные
		flag.Visit(func(fl *flag.Flag) {
			switch fl.Name {
			case "port":
				cfg.Port = strings.TrimSpace(*port)
			case "metadata":
				cfg.MetadataPath = strings.TrimSpace(*metaPath)
			case "enums":
				cfg.EnumsDir = strings.TrimSpace(*enums)
			case "db":
				cfg.DBURL = strings.TrimSpace(*db)
			case "auto-migrate":
				cfg.AutoMigrate = parseBool(*auto)
			case "reports-dir":
				cfg.ReportsDir = strings.TrimSpace(*reports)
			case "font-dir":
				cfg.FontDir = strings.TrimSpace(*fonts)
			}
		})
		return cfg
	}

	cfg.Port = strings.TrimSpace(*port)
	cfg.MetadataPath = strings.TrimSpace(*metaPath)
	cfg.EnumsDir = strings.TrimSpace(*enums)
	cfg.DBURL = strings.TrimSpace(*db)
	cfg.AutoMigrate = parseBool(*auto)
	cfg.ReportsDir = strings.TrimSpace(*reports)
	cfg.FontDir = strings.TrimSpace(*fonts)

	return cfg
}
