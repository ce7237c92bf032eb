package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vkolb/ccmetrics/internal/clock"
	"github.com/vkolb/ccmetrics/internal/logging"
	"github.com/vkolb/ccmetrics/metrics"
	"github.com/vkolb/ccmetrics/reporting"
	"github.com/vkolb/ccmetrics/serializing"
)

var rootCmd = &cobra.Command{
	Use:     "metricsd",
	Short:   "Run a demo registry with a periodic reporter",
	Long:    `metricsd wires a metrics.Registry and a reporting.Reporter together and drives a small synthetic workload against them. Configuration can be set via flags or METRICSD_<flag> environment variables.`,
	PreRunE: processConfig,
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	key := "reporter"
	rootCmd.PersistentFlags().String(key, "console", wrapString("reporter to use (console, tcp, unix)"))
	key = "serializer"
	rootCmd.PersistentFlags().String(key, "json", wrapString("serializer to use when reporter is tcp or unix (json, gob, binary)"))
	key = "endpoint"
	rootCmd.PersistentFlags().String(key, "127.0.0.1:9999", wrapString("address to push to when reporter is tcp, or socket path when unix"))
	key = "interval"
	rootCmd.PersistentFlags().Duration(key, 5*time.Second, wrapString("reporting interval"))
	key = "log-level"
	rootCmd.PersistentFlags().String(key, "info", wrapString("log level (debug, info, warn, error)"))
}

func processConfig(cmd *cobra.Command, _ []string) error {
	return viper.BindPFlags(cmd.Flags())
}

// wrapString mirrors the teacher's cmd/util helper, trivially: cobra help
// text in this module is short enough not to need real wrapping, but the
// hook stays so help text formatting is consistent if it grows.
func wrapString(text string) string { return text }

func run(_ *cobra.Command, _ []string) error {
	logger := logging.New("metricsd", logging.ParseLevel(viper.GetString("log-level")))

	reg := metrics.NewRegistry(clock.System, logger)
	logger.Infof("registry %s started", reg.InstanceID())

	var reporter reporting.Reporter
	switch viper.GetString("reporter") {
	case "console":
		reporter = reporting.NewConsoleReporter(os.Stdout, logger)
	case "tcp":
		ser, err := parseSerializer()
		if err != nil {
			return err
		}
		reporter = reporting.NewTCPReporter(viper.GetString("endpoint"), ser, logger)
	case "unix":
		ser, err := parseSerializer()
		if err != nil {
			return err
		}
		reporter = reporting.NewUnixReporter(viper.GetString("endpoint"), ser, logger)
	default:
		return fmt.Errorf("invalid reporter %s", viper.GetString("reporter"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Infof("shutting down")
		cancel()
	}()

	go driveWorkload(ctx, reg)

	reporter.Run(ctx, reg, viper.GetDuration("interval"))
	return nil
}

func parseSerializer() (serializing.Serializer, error) {
	switch viper.GetString("serializer") {
	case "json":
		return serializing.NewJSONSerializer(), nil
	case "gob":
		return serializing.NewGobSerializer(), nil
	case "binary":
		return serializing.NewBinarySerializer(), nil
	default:
		return nil, fmt.Errorf("invalid serializer %s", viper.GetString("serializer"))
	}
}

// driveWorkload generates synthetic traffic against a handful of named
// metrics so a freshly started daemon has something to report.
func driveWorkload(ctx context.Context, reg *metrics.Registry) {
	requests := reg.Counter("demo.requests")
	errors := reg.Counter("demo.errors")
	throughput := reg.Meter("demo.throughput")
	latency := reg.Timer("demo.latency")

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			requests.Inc()
			throughput.Mark()
			latency.Update(rand.Int63n(50) + 1)
			if rand.Intn(20) == 0 {
				errors.Inc()
			}
		}
	}
}

// initConfig loads .env/.env.local before viper binds so environment-driven
// configuration (METRICSD_REPORTER=tcp, etc.) takes precedence over defaults
// but not over explicit flags.
func initConfig() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("metricsd")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
