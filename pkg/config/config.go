package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Campus    CampusConfig
	Rooms     RoomsConfig
	Timetable TimetableConfig
	Reference ReferenceConfig
	Metrics   MetricsConfig
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	RunMigrations bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CampusConfig describes the campus wall clock and the collation locale for building names.
type CampusConfig struct {
	Timezone string
	Locale   string
}

// RoomsConfig tunes caching of the room catalog.
type RoomsConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// TimetableConfig controls where personal schedules are stored and how they are exported.
type TimetableConfig struct {
	KeyPrefix      string
	ExportFontPath string
}

// ReferenceConfig points at the static reference data used to seed the store.
type ReferenceConfig struct {
	SeedOnStart   bool
	BuildingsFile string
	CoursesFile   string
	RoomsCSV      string
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:          v.GetString("DB_HOST"),
		Port:          v.GetInt("DB_PORT"),
		User:          v.GetString("DB_USER"),
		Password:      v.GetString("DB_PASSWORD"),
		Name:          v.GetString("DB_NAME"),
		SSLMode:       v.GetString("DB_SSL_MODE"),
		MaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
		RunMigrations: v.GetBool("RUN_MIGRATIONS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Campus = CampusConfig{
		Timezone: v.GetString("CAMPUS_TIMEZONE"),
		Locale:   v.GetString("CAMPUS_LOCALE"),
	}

	cfg.Rooms = RoomsConfig{
		CacheEnabled: v.GetBool("ENABLE_ROOM_CACHE"),
		CacheTTL:     parseDuration(v.GetString("ROOM_CACHE_TTL"), 10*time.Minute),
	}

	cfg.Timetable = TimetableConfig{
		KeyPrefix:      v.GetString("TIMETABLE_KEY_PREFIX"),
		ExportFontPath: v.GetString("EXPORT_FONT_PATH"),
	}

	cfg.Reference = ReferenceConfig{
		SeedOnStart:   v.GetBool("SEED_ON_START"),
		BuildingsFile: v.GetString("REFERENCE_BUILDINGS_FILE"),
		CoursesFile:   v.GetString("REFERENCE_COURSES_FILE"),
		RoomsCSV:      v.GetString("REFERENCE_ROOMS_CSV"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
	}

	return cfg
}

// Location resolves the campus wall-clock location, falling back to the process local zone.
func (c CampusConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "campus_companion")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("RUN_MIGRATIONS", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CAMPUS_TIMEZONE", "Asia/Seoul")
	v.SetDefault("CAMPUS_LOCALE", "ko")

	v.SetDefault("ENABLE_ROOM_CACHE", true)
	v.SetDefault("ROOM_CACHE_TTL", "10m")

	v.SetDefault("TIMETABLE_KEY_PREFIX", "timetable")

	v.SetDefault("SEED_ON_START", true)
	v.SetDefault("REFERENCE_BUILDINGS_FILE", "./data/merged_buildings.json")
	v.SetDefault("REFERENCE_COURSES_FILE", "./data/class_schedule.json")
	v.SetDefault("REFERENCE_ROOMS_CSV", "")

	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
