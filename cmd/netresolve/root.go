package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"network_resolver/internal/pkg/logger"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// Version is set at build time.
	Version = "dev"

	// Global flags
	cfgFile     string
	envFiles    []string
	logLevel    string
	metricsOut  string
	concurrency int
	jsonOut     bool
)

var rootCmd = &cobra.Command{
	Use:   "netresolve",
	Short: "Resolve EVM network profiles into endpoints and signers",
	Long: `netresolve turns named network profiles into validated endpoint, chain ID and
signer bundles. Credentials are read from the environment and from .env files,
and are never printed.

Configuration (in order of priority):
  1. Command-line flags (--config, --env-file, --log-level, --metrics-out, --concurrency)
  2. Environment variables (NETRESOLVE_CONFIG, NETRESOLVE_ENV_FILE, NETRESOLVE_LOG_LEVEL,
     NETRESOLVE_METRICS_OUT, NETRESOLVE_CONCURRENCY)
  3. The built-in network table (bsc, bscTestnet)`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "netresolve version %s\n", Version)
	},
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		logger.Fatal("Command failed", "error", err)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "network config file (default is the built-in table)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to read, later files win (default from config, usually .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus metrics to this file on exit")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "networks resolved and probed in parallel (default 8)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("env_file", rootCmd.PersistentFlags().Lookup("env-file"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("metrics_out", rootCmd.PersistentFlags().Lookup("metrics-out"))
	_ = viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))

	rootCmd.AddCommand(versionCmd, networksCmd, knownCmd, resolveCmd, probeCmd)
}

// initConfig initializes viper configuration.
func initConfig() {
	viper.SetEnvPrefix("NETRESOLVE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
