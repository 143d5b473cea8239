package main

import (
	"fmt"

	"network_resolver/internal/app/port"
	"network_resolver/internal/app/registry"
	"network_resolver/internal/app/resolver"
	"network_resolver/internal/app/service"
	"network_resolver/internal/app/validator"
	"network_resolver/internal/infrastructure/configloader"
	"network_resolver/internal/infrastructure/envloader"
	networkdefinition "network_resolver/internal/infrastructure/network/definition"
	"network_resolver/internal/pkg/logger"
	"network_resolver/internal/pkg/metrics"
	"network_resolver/internal/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// application is the wired object graph for one command invocation.
type application struct {
	cfg      *configloader.Config
	log      port.Logger
	zap      *zap.Logger
	known    *networkdefinition.NetworkDefinitionProvider
	service  *service.NetworkService
	registry *prometheus.Registry
}

func newApplication() (*application, error) {
	provider, err := configloader.NewFileProvider(viper.GetString("config"))
	if err != nil {
		return nil, err
	}
	cfg := provider.GetConfig()

	level := viper.GetString("log_level")
	if level == "" {
		level = cfg.Logging.Level
	}
	zapLogger, err := logger.NewZapLogger(level, cfg.Logging.Development)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Init(zapLogger)
	log := logger.NewZapAdapter(zapLogger)

	files := envFileList()
	if len(files) == 0 {
		files = cfg.EnvFiles
	}
	lookup, err := envloader.NewAmbientLookup(log.Debug, files...)
	if err != nil {
		return nil, err
	}

	promReg := prometheus.NewRegistry()
	m, err := metrics.New(promReg)
	if err != nil {
		return nil, err
	}

	known := networkdefinition.NewNetworkDefinitionProvider(log, cfg.KnownNetworkDefinitions())
	reg := registry.New(log)
	svc := service.NewNetworkService(
		reg,
		resolver.NewCredentialResolver(lookup, log),
		validator.New(known, cfg.Validation.EndpointSchemes, log),
		log,
		service.WithMetrics(m),
		service.WithMaxConcurrency(viper.GetInt("concurrency")),
	)
	if err := svc.ReloadFrom(provider); err != nil {
		logger.Error("Failed to load network profiles", "error", err)
		return nil, err
	}

	logger.Debug("Application initialized", "profiles", reg.Len(), "solidity", cfg.Solidity)
	return &application{cfg: cfg, log: log, zap: zapLogger, known: known, service: svc, registry: promReg}, nil
}

// envFileList returns the --env-file / NETRESOLVE_ENV_FILE paths. Values from the
// environment arrive whitespace-split, so each part is split on commas as well.
func envFileList() []string {
	var files []string
	for _, v := range viper.GetStringSlice("env_file") {
		files = append(files, utils.SplitList(v)...)
	}
	return utils.Dedupe(files)
}

// close flushes metrics and logs. Errors are logged, not returned.
func (a *application) close() {
	if path := viper.GetString("metrics_out"); path != "" {
		if err := metrics.WriteTextfile(path, a.registry); err != nil {
			logger.Warn("Failed to write metrics", "error", err)
		} else {
			logger.Info("Metrics written", "path", path)
		}
	}
	_ = a.zap.Sync()
}
