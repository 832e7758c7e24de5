package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	LogLevel    string

	DBDSN          string
	MigrationsPath string

	TelegramToken string
	AdminChatIDs  []int64

	DefaultTimezone string
	SyncTimezones   []string

	SlotDuration      time.Duration
	CalendarTimeout   time.Duration
	RosterConcurrency int
	ConcludeInterval  time.Duration

	GoogleClientEmail string
	GooglePrivateKey  string

	ResendAPIKey string
	MailFrom     string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return FromEnv(os.Getenv)
}

// FromEnv собирает конфиг из функции чтения переменных окружения
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:       getenv("ENV"),
		LogLevel:          getenv("LOG_LEVEL"),
		DBDSN:             getenv("DB_DSN"),
		MigrationsPath:    getenv("MIGRATIONS_PATH"),
		TelegramToken:     getenv("TELEGRAM_TOKEN"),
		DefaultTimezone:   getenv("DEFAULT_TIMEZONE"),
		GoogleClientEmail: strings.TrimSpace(getenv("GOOGLE_CLIENT_EMAIL")),
		GooglePrivateKey:  NormalizePrivateKey(getenv("GOOGLE_PRIVATE_KEY")),
		ResendAPIKey:      getenv("RESEND_API_KEY"),
		MailFrom:          getenv("MAIL_FROM"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "UTC"
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	var err error
	if cfg.AdminChatIDs, err = parseInt64List(getenv("ADMIN_CHAT_IDS")); err != nil {
		return nil, fmt.Errorf("ADMIN_CHAT_IDS: %w", err)
	}

	cfg.SyncTimezones = parseList(getenv("SYNC_TIMEZONES"))
	if len(cfg.SyncTimezones) == 0 {
		cfg.SyncTimezones = []string{cfg.DefaultTimezone}
	}

	minutes, err := intOrDefault(getenv("SLOT_DURATION_MINUTES"), 60)
	if err != nil || minutes <= 0 {
		return nil, fmt.Errorf("SLOT_DURATION_MINUTES must be a positive integer")
	}
	cfg.SlotDuration = time.Duration(minutes) * time.Minute

	if cfg.RosterConcurrency, err = intOrDefault(getenv("ROSTER_CONCURRENCY"), 8); err != nil || cfg.RosterConcurrency <= 0 {
		return nil, fmt.Errorf("ROSTER_CONCURRENCY must be a positive integer")
	}

	if cfg.CalendarTimeout, err = durationOrDefault(getenv("CALENDAR_TIMEOUT"), 10*time.Second); err != nil {
		return nil, fmt.Errorf("CALENDAR_TIMEOUT: %w", err)
	}
	if cfg.ConcludeInterval, err = durationOrDefault(getenv("CONCLUDE_INTERVAL"), 15*time.Minute); err != nil {
		return nil, fmt.Errorf("CONCLUDE_INTERVAL: %w", err)
	}

	return cfg, nil
}

// CalendarConfigured сообщает заданы ли учётные данные календаря
func (c *Config) CalendarConfigured() bool {
	return c.GoogleClientEmail != "" && c.GooglePrivateKey != ""
}

// MailConfigured сообщает можно ли отправлять письма
func (c *Config) MailConfigured() bool {
	return c.ResendAPIKey != "" && c.MailFrom != ""
}

// NormalizePrivateKey превращает ключ из переменной окружения в PEM:
// снимает кавычки и заменяет экранированные "\n" на переводы строк
func NormalizePrivateKey(raw string) string {
	key := strings.TrimSpace(raw)
	key = strings.Trim(key, `"'`)
	key = strings.ReplaceAll(key, `\r\n`, "\n")
	key = strings.ReplaceAll(key, `\n`, "\n")
	if key != "" && !strings.HasSuffix(key, "\n") {
		key += "\n"
	}
	return key
}

func parseList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseInt64List(raw string) ([]int64, error) {
	var out []int64
	for _, part := range parseList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		out = append(out, id)
	}
	return out, nil
}

func intOrDefault(raw string, def int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func durationOrDefault(raw string, def time.Duration) (time.Duration, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive")
	}
	return d, nil
}
