package config

import (
	"github.com/kelseyhightower/envconfig"
)

var singleConfig *Config = nil

type Config struct {
	Database *dbConfig
	Service  *svcConfig
}

type dbConfig struct {
	Type     string `envconfig:"DB_TYPE" default:"pgsql"`
	Hostname string `envconfig:"DB_HOST" default:"localhost"`
	Port     int    `envconfig:"DB_PORT" default:"5432"`
	Name     string `envconfig:"DB_NAME" default:"auditengine"`
	User     string `envconfig:"DB_USER" default:"admin"`
	Password string `envconfig:"DB_PASS" default:"adminpass"`
}

type svcConfig struct {
	LogLevel           string `envconfig:"AUDIT_ENGINE_LOG_LEVEL" default:"info"`
	SignalCatalogPath  string `envconfig:"AUDIT_ENGINE_SIGNAL_CATALOG" default:""`
	KeywordCatalogPath string `envconfig:"AUDIT_ENGINE_KEYWORD_CATALOG" default:""`
	MigrationFolder    string `envconfig:"AUDIT_ENGINE_MIGRATIONS_FOLDER" default:""`
	ScoringWorkers     int    `envconfig:"AUDIT_ENGINE_SCORING_WORKERS" default:"5"`
}

func New() (*Config, error) {
	if singleConfig == nil {
		singleConfig = new(Config)
		if err := envconfig.Process("", singleConfig); err != nil {
			return nil, err
		}
	}
	return singleConfig, nil
}
