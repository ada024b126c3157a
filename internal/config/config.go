package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"temp_compliance/internal/compliance"
)

const envPrefix = "TC"

// Config is the resolved application configuration.
type Config struct {
	Port string

	Server struct {
		ReadHeaderTimeout time.Duration
		WriteTimeout      time.Duration
		IdleTimeout       time.Duration
		ShutdownTimeout   time.Duration
	}

	Log struct {
		Level       string
		Format      string
		ServiceName string
	}

	DB struct {
		Driver string // sqlite | postgres
		Path   string // sqlite file
		DSN    string // postgres connection string
	}

	MonitorInterval time.Duration

	Cooling    compliance.CoolingRules
	CheckRules compliance.CheckPolicy
	Categories compliance.CategoryRegistry
	Sensor     compliance.SensorPolicy

	Events struct {
		RedisAddr     string
		RedisPassword string
		RedisDB       int
		Stream        string
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.service_name", "temp-compliance")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("monitor.interval", "30s")
	v.SetDefault("cooling.phase_boundary_f", compliance.DefaultPhaseBoundaryF)
	v.SetDefault("cooling.target_f", compliance.DefaultTargetF)
	v.SetDefault("cooling.phase1_limit", compliance.DefaultPhase1Limit)
	v.SetDefault("cooling.total_limit", compliance.DefaultTotalLimit)
	v.SetDefault("cooling.phase1_warning_lead", compliance.DefaultPhase1Warning)
	v.SetDefault("cooling.phase2_warning_lead", compliance.DefaultPhase2Warning)
	v.SetDefault("cooling.amber_within", compliance.DefaultAmberWithin)
	v.SetDefault("cooling.reject_out_of_order", false)
	v.SetDefault("sensor.warning_buffer_f", compliance.DefaultWarningBufferF)
	v.SetDefault("sensor.sustained_count", compliance.DefaultSustainedCount)
	v.SetDefault("events.redis.db", 0)
	v.SetDefault("events.redis.stream", "compliance:events")
}

// Load reads an optional .env file, then configs/config.yml (or the file
// named config.* under dir), then TC_* environment overrides.
// A missing config file is not an error; defaults apply.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{Port: v.GetString("port")}

	cfg.Server.ReadHeaderTimeout = v.GetDuration("server.read_header_timeout")
	cfg.Server.WriteTimeout = v.GetDuration("server.write_timeout")
	cfg.Server.IdleTimeout = v.GetDuration("server.idle_timeout")
	cfg.Server.ShutdownTimeout = v.GetDuration("server.shutdown_timeout")

	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.Log.ServiceName = v.GetString("log.service_name")

	cfg.DB.Driver = strings.ToLower(v.GetString("db.driver"))
	cfg.DB.Path = v.GetString("db.path")
	cfg.DB.DSN = v.GetString("db.dsn")
	switch cfg.DB.Driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported db.driver %q: use sqlite or postgres", cfg.DB.Driver)
	}
	if cfg.DB.Driver == "postgres" && cfg.DB.DSN == "" {
		return nil, errors.New("db.dsn is required for the postgres driver")
	}

	cfg.MonitorInterval = v.GetDuration("monitor.interval")
	if cfg.MonitorInterval <= 0 {
		return nil, fmt.Errorf("monitor.interval must be positive, got %s", cfg.MonitorInterval)
	}

	cfg.Cooling = compliance.CoolingRules{
		PhaseBoundaryF:    v.GetFloat64("cooling.phase_boundary_f"),
		TargetF:           v.GetFloat64("cooling.target_f"),
		Phase1Limit:       v.GetDuration("cooling.phase1_limit"),
		TotalLimit:        v.GetDuration("cooling.total_limit"),
		Phase1WarningLead: v.GetDuration("cooling.phase1_warning_lead"),
		Phase2WarningLead: v.GetDuration("cooling.phase2_warning_lead"),
		AmberWithin:       v.GetDuration("cooling.amber_within"),
	}
	if cfg.Cooling.TargetF >= cfg.Cooling.PhaseBoundaryF {
		return nil, fmt.Errorf("cooling.target_f (%.1f) must be below cooling.phase_boundary_f (%.1f)",
			cfg.Cooling.TargetF, cfg.Cooling.PhaseBoundaryF)
	}
	if cfg.Cooling.Phase1Limit >= cfg.Cooling.TotalLimit {
		return nil, fmt.Errorf("cooling.phase1_limit (%s) must be shorter than cooling.total_limit (%s)",
			cfg.Cooling.Phase1Limit, cfg.Cooling.TotalLimit)
	}
	cfg.CheckRules = compliance.CheckPolicy{RejectOutOfOrder: v.GetBool("cooling.reject_out_of_order")}

	if v.IsSet("receiving.categories") {
		var reg compliance.CategoryRegistry
		if err := v.UnmarshalKey("receiving.categories", &reg); err != nil {
			return nil, fmt.Errorf("decode receiving.categories: %w", err)
		}
		cfg.Categories = reg
	}

	cfg.Sensor = compliance.SensorPolicy{
		WarningBufferF: v.GetFloat64("sensor.warning_buffer_f"),
		SustainedCount: v.GetInt("sensor.sustained_count"),
	}

	cfg.Events.RedisAddr = v.GetString("events.redis.addr")
	cfg.Events.RedisPassword = v.GetString("events.redis.password")
	cfg.Events.RedisDB = v.GetInt("events.redis.db")
	cfg.Events.Stream = v.GetString("events.redis.stream")

	return cfg, nil
}
