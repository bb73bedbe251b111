package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName             string
	MigrationsDir      string
	Port               string
	Turso              TursoConfig
	ProjectID          string
	WorkerPollInterval time.Duration
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
