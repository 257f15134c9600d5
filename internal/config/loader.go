package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// Occupancy index strategies.
const (
	OccupancyLinear = "linear"
	OccupancyBucket = "bucket"
)

// Config captures environment driven configuration values for the timetable service.
type Config struct {
	HTTPPort           int
	Storage            string
	SQLitePath         string
	SQLiteBusyTimeout  time.Duration
	SQLiteMaxOpenConns int
	MaxStudentYear     int
	OccupancyIndex     string
	Seed               bool
	LogLevel           string
}

// Load reads an optional .env file from the working directory and then parses
// the process environment.
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path. A missing file is ignored;
// variables already set in the environment win over the file.
func LoadFrom(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	cfg := Config{
		HTTPPort:           8000,
		Storage:            StorageSQLite,
		SQLitePath:         "timetable.db",
		SQLiteBusyTimeout:  5 * time.Second,
		SQLiteMaxOpenConns: 4,
		MaxStudentYear:     3,
		OccupancyIndex:     OccupancyLinear,
		LogLevel:           "info",
	}

	invalid := make([]string, 0, 2)

	if value := env("TIMETABLE_HTTP_PORT"); value != "" {
		port, err := strconv.Atoi(value)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "TIMETABLE_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if value := strings.ToLower(env("TIMETABLE_STORAGE")); value != "" {
		if value != StorageSQLite && value != StorageMemory {
			invalid = append(invalid, "TIMETABLE_STORAGE")
		} else {
			cfg.Storage = value
		}
	}

	if value := env("TIMETABLE_SQLITE_PATH"); value != "" {
		cfg.SQLitePath = value
	}

	if value := env("TIMETABLE_SQLITE_BUSY_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil || timeout < 0 {
			invalid = append(invalid, "TIMETABLE_SQLITE_BUSY_TIMEOUT")
		} else {
			cfg.SQLiteBusyTimeout = timeout
		}
	}

	if value := env("TIMETABLE_SQLITE_MAX_OPEN_CONNS"); value != "" {
		conns, err := strconv.Atoi(value)
		if err != nil || conns <= 0 {
			invalid = append(invalid, "TIMETABLE_SQLITE_MAX_OPEN_CONNS")
		} else {
			cfg.SQLiteMaxOpenConns = conns
		}
	}

	if value := env("TIMETABLE_MAX_STUDENT_YEAR"); value != "" {
		year, err := strconv.Atoi(value)
		if err != nil || year < 1 {
			invalid = append(invalid, "TIMETABLE_MAX_STUDENT_YEAR")
		} else {
			cfg.MaxStudentYear = year
		}
	}

	if value := strings.ToLower(env("TIMETABLE_OCCUPANCY_INDEX")); value != "" {
		if value != OccupancyLinear && value != OccupancyBucket {
			invalid = append(invalid, "TIMETABLE_OCCUPANCY_INDEX")
		} else {
			cfg.OccupancyIndex = value
		}
	}

	if value := env("TIMETABLE_SEED"); value != "" {
		seed, err := strconv.ParseBool(value)
		if err != nil {
			invalid = append(invalid, "TIMETABLE_SEED")
		} else {
			cfg.Seed = seed
		}
	}

	if value := strings.ToLower(env("TIMETABLE_LOG_LEVEL")); value != "" {
		switch value {
		case "debug", "info", "warn", "warning", "error":
			cfg.LogLevel = value
		default:
			invalid = append(invalid, "TIMETABLE_LOG_LEVEL")
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}
	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
