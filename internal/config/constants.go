package config

import "time"

const (
	envPort             = "PORT"
	envLogLevel         = "LOG_LEVEL"
	envLogFormat        = "LOG_FORMAT"
	envStoreDriver      = "STORE_DRIVER"
	envSQLitePath       = "SQLITE_PATH"
	envArchiveEnabled   = "ARCHIVE_ENABLED"
	envArchiveDir       = "ARCHIVE_DIR"
	envArchiveRetention = "ARCHIVE_RETENTION_DAYS"
	envArchiveSweep     = "ARCHIVE_SWEEP_INTERVAL"
	envSeedTeamFile     = "SEED_TEAM_FILE"
	envSeedDemoTeam     = "SEED_DEMO_TEAM"
	envDefaultInnings   = "DEFAULT_INNINGS"
	envMaxConsecutiveM  = "MAX_CONSECUTIVE_MALES"
	envShutdownTimeout  = "SHUTDOWN_TIMEOUT"
	envMetricsPort      = "METRICS_PORT"
	envMetricsOn        = "METRICS_ENABLED"
	envOtelEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService      = "OTEL_SERVICE_NAME"
	envOtelInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort             = "4000"
	defaultStoreDriver      = StoreMemory
	defaultSQLitePath       = "data/lineups.db"
	defaultArchiveDir       = "data/archive"
	defaultArchiveRetention = 30
	defaultArchiveSweep     = Duration(time.Hour)
	defaultInnings          = 7
	maxInnings              = 20
	defaultMaxConsecutiveM  = 3
	defaultShutdownTimeout  = 10 * Duration(time.Second)
	defaultMetricsPort      = "9090"
	defaultServiceName      = "lineup-service"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)
