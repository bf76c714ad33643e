package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sitereport/internal/config"
	"sitereport/internal/database"
	"sitereport/internal/logger"
	"sitereport/internal/output"
	"sitereport/internal/sitereport"
)

var listSitesCmd = &cobra.Command{
	Use:   "list-sites",
	Short: "List every site in the network",
	Long:  `Scans the site table and prints one row per site: id, domain, and path.`,
	Args:  cobra.ArbitraryArgs,
	RunE:  reportRunner((*sitereport.Reporter).ListSites),
}

var listBlogsCmd = &cobra.Command{
	Use:   "list-blogs",
	Short: "List every blog of every site",
	Long: `Scans every site for its blogs and prints each blog's row from the blogs
table along with its count of published posts and pages and its admin email.`,
	Args: cobra.ArbitraryArgs,
	RunE: reportRunner((*sitereport.Reporter).ListBlogs),
}

var listActivePluginsCmd = &cobra.Command{
	Use:   "list-active-plugins",
	Short: "List the active plugins of every blog",
	Long: `Scans every blog of every site for active plugins and prints one row per
plugin. Plugins installed without a directory are reported as ".".`,
	Args: cobra.ArbitraryArgs,
	RunE: reportRunner((*sitereport.Reporter).ListActivePlugins),
}

var listActiveThemesCmd = &cobra.Command{
	Use:   "list-active-themes",
	Short: "List the active theme of every blog",
	Long:  `Prints each blog's stylesheet (active theme) and template (parent theme).`,
	Args:  cobra.ArbitraryArgs,
	RunE:  reportRunner((*sitereport.Reporter).ListActiveThemes),
}

func init() {
	rootCmd.AddCommand(listSitesCmd)
	rootCmd.AddCommand(listBlogsCmd)
	rootCmd.AddCommand(listActivePluginsCmd)
	rootCmd.AddCommand(listActiveThemesCmd)
}

// reportRunner wires configuration, logging, the database, and the sink,
// then runs a single report.
func reportRunner(run func(*sitereport.Reporter, context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}

		log, err := logger.New(logger.Options{
			Verbose: cfg.Verbose,
			File:    cfg.Log.File,
			Console: cmd.ErrOrStderr(),
		})
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		defer log.Sync()

		if len(args) > 0 {
			log.Debugw("filter arguments are not supported yet, ignoring", "args", args)
		}

		sink, err := output.New(cfg.Output.Format, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		tables, err := database.NewTables(cfg.DB.TablePrefix, cfg.DB.MainSiteTables)
		if err != nil {
			return err
		}

		conn, err := openDatabase(cmd, cfg, log)
		if err != nil {
			return err
		}
		defer conn.Close()

		repo := sitereport.NewSQLRepository(conn.db, tables, nil)
		reporter := sitereport.NewReporter(repo, sink, log)

		log.Debugw("running report", "command", cmd.Name(), "driver", cfg.DB.Driver, "format", cfg.Output.Format)
		return run(reporter, cmd.Context())
	}
}
