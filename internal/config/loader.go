package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"sitereport/internal/database"
)

// EnvPrefix prefixes every environment override, e.g. SITEREPORT_DB_HOST.
const EnvPrefix = "SITEREPORT"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("tableprefix", func(fl validator.FieldLevel) bool {
		return database.ValidTablePrefix(fl.Field().String())
	})
	return v
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("db.driver", database.DriverMySQL)
	v.SetDefault("db.host", "127.0.0.1:3306")
	v.SetDefault("db.user", "root")
	v.SetDefault("db.name", "wordpress")
	v.SetDefault("db.table_prefix", database.DefaultTablePrefix)
	v.SetDefault("db.main_site_tables", false)
	v.SetDefault("ssh.port", "22")
	v.SetDefault("ssh.agent", true)
	v.SetDefault("output.format", "table")

	// Keys without a real default still need registering so AutomaticEnv
	// picks them up during Unmarshal.
	v.SetDefault("verbose", false)
	for _, key := range []string{"db.dsn", "db.password", "ssh.host", "ssh.user", "ssh.key", "log.file"} {
		v.SetDefault(key, "")
	}
}

// BindEnv makes v read SITEREPORT_* variables, mapping "." to "_".
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}
