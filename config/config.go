package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/vnkhanh/ai-learning-journal/models"
	"github.com/vnkhanh/ai-learning-journal/utils"
)

var DB *gorm.DB

// AppConfig đọc từ biến môi trường (sau khi godotenv đã nạp .env)
type AppConfig struct {
	Env  string
	Port string

	DBDriver     string // postgres | sqlite
	DBSQLitePath string
	Retry        utils.RetryPolicy

	GeminiAPIKey     string
	GeminiModel      string
	GeminiStructured bool

	CORSOrigins []string

	RedisAddr    string
	RedisChannel string

	OtelEnabled bool
}

func Load() AppConfig {
	return AppConfig{
		Env:          envString("APP_ENV", "development"),
		Port:         envString("PORT", "8080"),
		DBDriver:     strings.ToLower(envString("DB_DRIVER", "postgres")),
		DBSQLitePath: envString("DB_SQLITE_PATH", "journal.db"),
		Retry: utils.RetryPolicy{
			Attempts: envInt("DB_RETRY_ATTEMPTS", 3),
			Delay:    time.Duration(envInt("DB_RETRY_DELAY_MS", 1000)) * time.Millisecond,
		},
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      envString("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiStructured: envBool("GEMINI_STRUCTURED_OUTPUT", true),
		CORSOrigins:      envList("CORS_ORIGINS", []string{"http://localhost:3000"}),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisChannel:     envString("REDIS_CHANNEL", "journal-events"),
		OtelEnabled:      envBool("OTEL_ENABLED", false),
	}
}

func (c AppConfig) IsProduction() bool {
	return c.Env == "prod" || c.Env == "production"
}

// InitDB mở kết nối, cấu hình pool và AutoMigrate các models
func InitDB(cfg AppConfig) error {
	logLevel := logger.Info
	if cfg.IsProduction() {
		logLevel = logger.Warn
	}

	db, err := Open(cfg, &gorm.Config{Logger: logger.Default.LogMode(logLevel)})
	if err != nil {
		return fmt.Errorf("không thể kết nối database: %w", err)
	}

	// Lấy *sql.DB để config connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("không thể lấy sql.DB từ gorm: %w", err)
	}
	if cfg.DBDriver == "postgres" {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	if err := Migrate(db); err != nil {
		return fmt.Errorf("autoMigrate lỗi: %w", err)
	}

	DB = db
	utils.Log.Info("database connected & migrated", "driver", cfg.DBDriver)
	return nil
}

// Open chọn driver theo DB_DRIVER. SQLite dùng cho chạy local.
func Open(cfg AppConfig, gormCfg *gorm.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return gorm.Open(sqlite.Open(SQLiteDSN(cfg.DBSQLitePath)), gormCfg)
	case "postgres", "":
		return gorm.Open(postgres.Open(PostgresDSN()), gormCfg)
	default:
		return nil, fmt.Errorf("DB_DRIVER không hỗ trợ: %s", cfg.DBDriver)
	}
}

func PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		envString("DB_PORT", "5432"),
		envString("DB_SSLMODE", "disable"),
	)
}

// SQLiteDSN bật foreign key để cascade hoạt động như postgres
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Journal{},
		&models.Document{},
		&models.Quiz{},
		&models.Flashcard{},
	)
}

func envString(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envBool(name string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	switch v {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func envList(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
