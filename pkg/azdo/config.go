package azdo

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config carries everything needed to reach one Azure DevOps organization
// and project.
type Config struct {
	OrganizationURL string        `mapstructure:"org_url"`
	PAT             string        `mapstructure:"pat"`
	Project         string        `mapstructure:"project"`
	UserStoryType   string        `mapstructure:"user_story_type"`
	Timeout         time.Duration `mapstructure:"timeout"`
	LogLevel        string        `mapstructure:"log_level"`
	LogFile         string        `mapstructure:"log_file"`
	HTTPAddr        string        `mapstructure:"http_addr"`
}

// LoadConfig reads configuration from the environment, loading a .env file
// when one is present. Organization URL, token and project fall back to the
// stored credentials file from `azdo-mcp login`; the environment always
// wins.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	bindEnvs(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	if cfg.OrganizationURL == "" || cfg.PAT == "" {
		if creds, err := LoadCredentials(); err == nil && creds.IsValid() {
			if cfg.OrganizationURL == "" {
				cfg.OrganizationURL = creds.OrganizationURL
			}
			if cfg.PAT == "" {
				cfg.PAT = creds.PAT
			}
			if cfg.Project == "" {
				cfg.Project = creds.Project
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the required settings are present.
func (c Config) Validate() error {
	if c.OrganizationURL == "" {
		return fmt.Errorf("%w: AZURE_DEVOPS_ORG_URL is not set", ErrInvalidConfiguration)
	}
	if c.PAT == "" {
		return fmt.Errorf("%w: AZURE_DEVOPS_PAT is not set", ErrInvalidConfiguration)
	}
	if c.Project == "" {
		return fmt.Errorf("%w: AZURE_DEVOPS_PROJECT is not set", ErrInvalidConfiguration)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("user_story_type", "User Story")
	v.SetDefault("timeout", "30s")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", defaultLogFile())
	v.SetDefault("http_addr", ":8228")
}

func bindEnvs(v *viper.Viper) {
	_ = v.BindEnv("org_url", "AZURE_DEVOPS_ORG_URL")
	_ = v.BindEnv("pat", "AZURE_DEVOPS_PAT")
	_ = v.BindEnv("project", "AZURE_DEVOPS_PROJECT")
	_ = v.BindEnv("user_story_type", "AZURE_DEVOPS_USER_STORY_TYPE")
	_ = v.BindEnv("timeout", "AZURE_DEVOPS_TIMEOUT")
	_ = v.BindEnv("log_level", "LOG_LEVEL")
	_ = v.BindEnv("log_file", "LOG_FILE")
	_ = v.BindEnv("http_addr", "HTTP_ADDR")
}

func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".azdo-mcp", "azdo-mcp.log")
}
