package cmd

import (
	"fmt"
	"os"
	"time"

	filekeys "github.com/bnema/garm/internal/adapters/keys/file"
	accountsrender "github.com/bnema/garm/internal/adapters/render/accounts"
	tomlrepo "github.com/bnema/garm/internal/adapters/repo/toml"
	"github.com/bnema/garm/internal/application"
	"github.com/bnema/garm/internal/config"
	"github.com/bnema/garm/internal/domain"
	"github.com/bnema/garm/internal/ports"
	"go.uber.org/zap"
)

const configFileEnv = "GARM_CONFIG"

type app struct {
	config           config.Config
	service          *application.Service
	logger           *zap.Logger
	accountsRenderer func([]domain.Account, accountsrender.RenderOptions) (string, error)
	readFile         func(string) ([]byte, error)
	now              func() time.Time
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	v := config.New(homeDir, os.Getenv(configFileEnv))
	cfg, err := config.Load(v, homeDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(v, filekeys.NewStore(cfg.Keys.Path))
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}

	return &app{
		config:           cfg,
		service:          application.NewService(repo, ports.SystemClock{}, cfg.ActorOptions()),
		logger:           logger,
		accountsRenderer: accountsrender.Render,
		readFile:         os.ReadFile,
		now:              time.Now,
	}, nil
}
