package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/MRamiBalles/PocketOffice/server/internal/engine"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	DB         DBConfig         `yaml:"db"`
	Log        LogConfig        `yaml:"log"`
	Simulation SimulationConfig `yaml:"simulation"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port" validate:"min=1,max=65535"`
	// ArchiveNotifications persists every drained notification.
	ArchiveNotifications bool `yaml:"archive_notifications"`
	// MaxObservers caps WebSocket connections; zero is unlimited.
	MaxObservers int `yaml:"max_observers" validate:"min=0"`
}

type DBConfig struct {
	Driver string `yaml:"driver" validate:"oneof=sqlite postgres"`
	DSN    string `yaml:"dsn" validate:"required"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// SimulationConfig holds the tunables of a new game.
type SimulationConfig struct {
	CompanyName       string        `yaml:"company_name" validate:"required"`
	StartingCash      int64         `yaml:"starting_cash" validate:"min=0"`
	InterestRate      float64       `yaml:"interest_rate" validate:"gte=0,lte=1"`
	DayDuration       time.Duration `yaml:"day_duration" validate:"gt=0"`
	MinSpeed          float64       `yaml:"min_speed" validate:"gt=0"`
	MaxSpeed          float64       `yaml:"max_speed" validate:"gtefield=MinSpeed"`
	FloorWidth        int           `yaml:"floor_width" validate:"min=3"`
	FloorHeight       int           `yaml:"floor_height" validate:"min=1"`
	RentPerFloor      int           `yaml:"rent_per_floor" validate:"min=0"`
	ProjectsPerMonth  int           `yaml:"projects_per_month" validate:"min=0"`
	CandidatePoolSize int           `yaml:"candidate_pool_size" validate:"min=1"`
	// Seed fixes the random source; zero picks one from the clock.
	Seed uint64 `yaml:"seed"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	sim := engine.DefaultConfig()
	return Config{
		Server: ServerConfig{
			Host:                 "0.0.0.0",
			Port:                 8080,
			ArchiveNotifications: true,
			MaxObservers:         200,
		},
		DB: DBConfig{
			Driver: "sqlite",
			DSN:    "data/office.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Simulation: SimulationConfig{
			CompanyName:       sim.CompanyName,
			StartingCash:      sim.StartingCash,
			InterestRate:      sim.InterestRate,
			DayDuration:       sim.DayDuration,
			MinSpeed:          sim.MinSpeed,
			MaxSpeed:          sim.MaxSpeed,
			FloorWidth:        sim.FloorWidth,
			FloorHeight:       sim.FloorHeight,
			RentPerFloor:      sim.RentPerFloor,
			ProjectsPerMonth:  sim.ProjectsPerMonth,
			CandidatePoolSize: sim.CandidatePoolSize,
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("OFFICE_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("OFFICE_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("OFFICE_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid OFFICE_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if driver := os.Getenv("OFFICE_DB_DRIVER"); driver != "" {
		cfg.DB.Driver = driver
	}
	if dsn := os.Getenv("OFFICE_DB_DSN"); dsn != "" {
		cfg.DB.DSN = dsn
	}
	if level := os.Getenv("OFFICE_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if name := os.Getenv("OFFICE_COMPANY_NAME"); name != "" {
		cfg.Simulation.CompanyName = name
	}
	if seedStr := os.Getenv("OFFICE_SEED"); seedStr != "" {
		seed, err := strconv.ParseUint(seedStr, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid OFFICE_SEED: %w", err)
		}
		cfg.Simulation.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Engine converts the simulation block into engine tunables.
func (s SimulationConfig) Engine() engine.Config {
	cfg := engine.DefaultConfig()
	cfg.CompanyName = s.CompanyName
	cfg.StartingCash = s.StartingCash
	cfg.InterestRate = s.InterestRate
	cfg.DayDuration = s.DayDuration
	cfg.MinSpeed = s.MinSpeed
	cfg.MaxSpeed = s.MaxSpeed
	cfg.FloorWidth = s.FloorWidth
	cfg.FloorHeight = s.FloorHeight
	cfg.RentPerFloor = s.RentPerFloor
	cfg.ProjectsPerMonth = s.ProjectsPerMonth
	cfg.CandidatePoolSize = s.CandidatePoolSize
	return cfg
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
