package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/diwise/premis-registry/internal/pkg/application/registry"
	"github.com/diwise/premis-registry/internal/pkg/infrastructure/router"
	premisv3 "github.com/diwise/premis-registry/internal/pkg/presentation/api/premis-v3"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/go-chi/chi/v5"
)

const appName string = "premis-registry"

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	flags := loadFlags(ctx)

	r, err := initialize(ctx, flags)
	if err != nil {
		log.Error("failed to initialize", "err", err.Error())
		os.Exit(1)
	}

	port := flags[servicePort]
	log.Info("starting to listen for connections", "port", port)

	err = http.ListenAndServe(flags[listenAddress]+":"+port, r)
	if err != nil {
		log.Error("failed to listen for connections", "err", err.Error())
		os.Exit(1)
	}
}

func loadFlags(ctx context.Context) FlagMap {
	return FlagMap{
		listenAddress: env.GetVariableOrDefault(ctx, "LISTEN_ADDRESS", ""),
		servicePort:   env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8080"),
		configPath:    env.GetVariableOrDefault(ctx, "REGISTRY_CONFIG_PATH", "/opt/diwise/config/registry.yaml"),
		opaPath:       env.GetVariableOrDefault(ctx, "AUTHZ_POLICY_PATH", "/opt/diwise/config/authz.rego"),
	}
}

func initialize(ctx context.Context, flags FlagMap) (*chi.Mux, error) {
	configFile, err := os.Open(flags[configPath])
	if err != nil {
		return nil, fmt.Errorf("failed to open registry configuration: %w", err)
	}
	defer configFile.Close()

	cfg, err := registry.LoadConfiguration(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry configuration: %w", err)
	}

	app, err := registry.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	policies, err := os.Open(flags[opaPath])
	if err != nil {
		return nil, fmt.Errorf("failed to open authorization policies: %w", err)
	}
	defer policies.Close()

	r := router.New(appName)

	err = premisv3.RegisterHandlers(ctx, r, policies, app)
	if err != nil {
		return nil, fmt.Errorf("failed to register handlers: %w", err)
	}

	return r, nil
}
