package cmd

import (
	"fmt"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sitereport/internal/auth"
	"sitereport/internal/config"
	"sitereport/internal/database"
)

// connection is an open database plus the SSH tunnel it may ride on.
type connection struct {
	db     *sqlx.DB
	tunnel *auth.SSHClient
}

func (c *connection) Close() error {
	var err error
	if c.db != nil {
		err = c.db.Close()
	}
	if c.tunnel != nil {
		if tErr := c.tunnel.Close(); err == nil {
			err = tErr
		}
	}
	return err
}

func openDatabase(cmd *cobra.Command, cfg *config.Config, log *zap.SugaredLogger) (*connection, error) {
	dsn, err := dataSourceName(cmd, cfg)
	if err != nil {
		return nil, err
	}

	conn := &connection{}
	if cfg.SSH.Enabled() {
		if cfg.DB.Driver != database.DriverMySQL {
			return nil, fmt.Errorf("an SSH tunnel can only be used with the %s driver", database.DriverMySQL)
		}

		client, err := createSSHClient(cfg.SSH)
		if err != nil {
			return nil, err
		}
		conn.tunnel = client

		database.RegisterTunnel(client.DialContext)
		if dsn, err = database.WithTunnel(dsn); err != nil {
			conn.Close()
			return nil, err
		}
		log.Infow("tunnelling database connection", "ssh_host", client.GetHostname(), "ssh_user", client.GetUsername())
	}

	db, err := database.Open(cmd.Context(), cfg.DB.Driver, dsn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	conn.db = db

	log.Debugw("database connected", "driver", cfg.DB.Driver)
	return conn, nil
}

// dataSourceName returns the configured DSN, or builds a MySQL one from the
// individual connection settings.
func dataSourceName(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if cfg.DB.DSN != "" {
		return cfg.DB.DSN, nil
	}

	if mustGetBoolFlag(cmd, "ask-password") {
		password, err := promptPassword(cfg.DB.User, cfg.DB.Host)
		if err != nil {
			return "", err
		}
		cfg.DB.Password = password
	}

	return database.MySQLConfig{
		Addr:     cfg.DB.Host,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.Name,
	}.DSN(), nil
}

func promptPassword(user, host string) (string, error) {
	var password string
	prompt := &survey.Password{
		Message: fmt.Sprintf("Database password for %s@%s:", user, host),
	}
	if err := survey.AskOne(prompt, &password); err != nil {
		return "", fmt.Errorf("password prompt cancelled: %w", err)
	}
	return password, nil
}

func createSSHClient(cfg config.SSH) (*auth.SSHClient, error) {
	username := cfg.User
	if username == "" {
		username = getCurrentUser()
	}

	return auth.NewSSHClient(auth.SSHConfig{
		Hostname:  cfg.Host,
		Username:  username,
		Port:      cfg.Port,
		KeyPath:   cfg.Key,
		UseAgent:  cfg.Agent,
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	})
}
