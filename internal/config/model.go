// Package config holds the typed sitereport configuration. Values come
// from, in increasing precedence, the config file ($HOME/.sitereport.yaml),
// a .env file, SITEREPORT_-prefixed environment variables, and flags.
package config

// Config is the merged configuration tree.
type Config struct {
	Verbose bool     `mapstructure:"verbose"`
	DB      Database `mapstructure:"db"`
	SSH     SSH      `mapstructure:"ssh"`
	Output  Output   `mapstructure:"output"`
	Log     Log      `mapstructure:"log"`
}

// Database selects and reaches the network database. DSN wins over the
// individual connection fields when both are set.
type Database struct {
	Driver   string `mapstructure:"driver" validate:"required,oneof=mysql sqlite"`
	DSN      string `mapstructure:"dsn" validate:"required_if=Driver sqlite"`
	Host     string `mapstructure:"host" validate:"required_without=DSN"`
	User     string `mapstructure:"user" validate:"required_without=DSN"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name" validate:"required_without=DSN"`

	TablePrefix    string `mapstructure:"table_prefix" validate:"required,tableprefix"`
	MainSiteTables bool   `mapstructure:"main_site_tables"`
}

// SSH configures the optional tunnel to the database host.
type SSH struct {
	Host  string `mapstructure:"host"`
	User  string `mapstructure:"user"`
	Port  string `mapstructure:"port" validate:"omitempty,numeric"`
	Key   string `mapstructure:"key"`
	Agent bool   `mapstructure:"agent"`
}

// Enabled reports whether database traffic should go through SSH.
func (s SSH) Enabled() bool {
	return s.Host != ""
}

// Output selects the report renderer.
type Output struct {
	Format string `mapstructure:"format" validate:"oneof=table csv json yaml"`
}

// Log configures the optional log file.
type Log struct {
	File string `mapstructure:"file"`
}
