package shared

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sthuthi2002/DevSecOps-project/internal/report"
)

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./secreport.db"
	} `yaml:"database"`

	Report struct {
		OutPath   string            `yaml:"out_path"`  // "security-report.html"
		Artifacts []report.Artifact `yaml:"artifacts"` // nil = built-in three
	} `yaml:"report"`

	Server struct {
		Addr           string   `yaml:"addr"`            // ":8080"
		SessionMinutes int      `yaml:"session_minutes"` // 720
		AllowedOrigins []string `yaml:"allowed_origins"` // ["*"]
	} `yaml:"server"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./secreport.db"
	c.Report.OutPath = report.DefaultOutPath
	c.Server.Addr = ":8080"
	c.Server.SessionMinutes = 720
	c.Server.AllowedOrigins = []string{"*"}
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("SECREPORT_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("SECREPORT_OUT_PATH"); v != "" {
		c.Report.OutPath = v
	}
	if v := os.Getenv("SECREPORT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("SECREPORT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SECREPORT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	return c, nil
}
