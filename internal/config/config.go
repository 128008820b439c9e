package config

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port            string
	Logging         LoggingConfig
	Store           StoreConfig
	Archive         ArchiveConfig
	Seed            SeedConfig
	Lineup          LineupConfig
	ShutdownTimeout Duration
	Metrics         MetricsConfig
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// StoreConfig selects where teams and lineups live.
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

// ArchiveConfig controls the on-disk lineup archive.
type ArchiveConfig struct {
	Enabled       bool
	Dir           string
	RetentionDays int
	SweepInterval Duration
}

// SeedConfig names teams loaded at startup.
type SeedConfig struct {
	TeamFile string
	DemoTeam bool
}

// LineupConfig holds service-wide defaults for teams that leave them unset.
type LineupConfig struct {
	Innings             int
	MaxConsecutiveMales int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port: envOrDefault(envPort, defaultPort),
		Logging: LoggingConfig{
			Level:  envOrDefault(envLogLevel, ""),
			Format: envOrDefault(envLogFormat, ""),
		},
		Store:   loadStore(),
		Archive: loadArchive(),
		Seed: SeedConfig{
			TeamFile: envOrDefault(envSeedTeamFile, ""),
			DemoTeam: boolEnvOrDefault(envSeedDemoTeam, false),
		},
		Lineup: LineupConfig{
			Innings:             parsedEnvOrDefault(envDefaultInnings, defaultInnings, strconv.Atoi, validInnings),
			MaxConsecutiveMales: intEnvOrDefault(envMaxConsecutiveM, defaultMaxConsecutiveM),
		},
		ShutdownTimeout: durationEnvOrDefault(envShutdownTimeout, defaultShutdownTimeout),
		Metrics:         loadMetrics(),
	}
}

// LoadDotEnv loads variables from the given .env files (default ".env")
// without overriding values already in the environment. Missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func loadStore() StoreConfig {
	driver := strings.ToLower(strings.TrimSpace(envOrDefault(envStoreDriver, defaultStoreDriver)))
	if driver != StoreSQLite {
		driver = StoreMemory
	}
	return StoreConfig{
		Driver:     driver,
		SQLitePath: envOrDefault(envSQLitePath, defaultSQLitePath),
	}
}

func loadArchive() ArchiveConfig {
	return ArchiveConfig{
		Enabled:       boolEnvOrDefault(envArchiveEnabled, true),
		Dir:           envOrDefault(envArchiveDir, defaultArchiveDir),
		RetentionDays: intEnvOrDefault(envArchiveRetention, defaultArchiveRetention),
		SweepInterval: durationEnvOrDefault(envArchiveSweep, defaultArchiveSweep),
	}
}

func validInnings(n int) bool { return n > 0 && n <= maxInnings }
