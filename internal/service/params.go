package service

import (
	"github.com/kadepos/kadepos/internal/config"
	"github.com/kadepos/kadepos/internal/logger"
)

// ServiceParams holds the common dependencies injected into services.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
}
