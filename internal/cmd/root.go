package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"sitereport/internal/config"
	"sitereport/internal/database"
	"sitereport/internal/output"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "sitereport",
		Short: "Report on sites, blogs, plugins, and themes in a WordPress network",
		Long: `sitereport reads a WordPress multisite database directly and prints
tables of its sites, blogs, active plugins, and active themes.
It never writes to the database.`,
		Version:      "0.1.0",
		SilenceUsage: true,
	}
)

// flagKeys maps persistent flags to their configuration keys.
var flagKeys = map[string]string{
	"verbose":          "verbose",
	"driver":           "db.driver",
	"dsn":              "db.dsn",
	"db-host":          "db.host",
	"db-user":          "db.user",
	"db-password":      "db.password",
	"db-name":          "db.name",
	"table-prefix":     "db.table_prefix",
	"main-site-tables": "db.main_site_tables",
	"ssh-host":         "ssh.host",
	"ssh-user":         "ssh.user",
	"ssh-port":         "ssh.port",
	"ssh-key":          "ssh.key",
	"ssh-agent":        "ssh.agent",
	"format":           "output.format",
	"log-file":         "log.file",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.sitereport.yaml)")
	registerFlags(flags)

	for flag, key := range flagKeys {
		viper.BindPFlag(key, flags.Lookup(flag))
	}
}

// registerFlags adds the report flags to flags. The .env file is loaded
// first because the SSH flag defaults come from the environment.
func registerFlags(flags *pflag.FlagSet) {
	loadDotEnv()

	flags.Bool("verbose", false, "verbose output")

	flags.String("driver", database.DriverMySQL, "Database driver (mysql or sqlite)")
	flags.String("dsn", "", "Full data source name; overrides the --db-* flags")
	flags.String("db-host", "127.0.0.1:3306", "Database host:port")
	flags.String("db-user", "root", "Database user")
	flags.String("db-password", "", "Database password")
	flags.String("db-name", "wordpress", "Database name")
	flags.Bool("ask-password", false, "Prompt for the database password")
	flags.String("table-prefix", database.DefaultTablePrefix, "WordPress table prefix")
	flags.Bool("main-site-tables", false, "Read blog 1 from the unnumbered tables (wp_options, wp_posts)")

	flags.String("ssh-host", getEnvWithDefault("SSH_HOST", ""), "Tunnel the database connection through this SSH host")
	flags.String("ssh-user", getEnvWithDefault("SSH_USER", ""), "SSH username (default: current user)")
	flags.String("ssh-port", getEnvWithDefault("SSH_PORT", "22"), "SSH port")
	flags.String("ssh-key", getEnvWithDefault("SSH_KEY", ""), "SSH private key path")
	flags.Bool("ssh-agent", getEnvBoolWithDefault("SSH_AGENT", true), "Use SSH agent")

	flags.StringP("format", "f", output.FormatTable, "Output format (table, csv, json, yaml)")
	flags.String("log-file", "", "Also write JSON logs to this file")
}

// loadDotEnv loads .env from the working directory. A missing file is fine;
// only report files that exist but fail to load.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: Error loading .env file: %v\n", err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".sitereport")
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}
