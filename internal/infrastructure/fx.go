// Package infrastructure contains infrastructure layer components
package infrastructure

import (
	"go.uber.org/fx"

	"github.com/Conte777/TrackFlow/internal/infrastructure/cache"
	"github.com/Conte777/TrackFlow/internal/infrastructure/database"
	"github.com/Conte777/TrackFlow/internal/infrastructure/http"
	"github.com/Conte777/TrackFlow/internal/infrastructure/kafka"
	"github.com/Conte777/TrackFlow/internal/infrastructure/logger"
	"github.com/Conte777/TrackFlow/internal/infrastructure/max"
	"github.com/Conte777/TrackFlow/internal/infrastructure/metrics"
	"github.com/Conte777/TrackFlow/internal/infrastructure/telegram"
)

// Module provides all infrastructure components for fx dependency injection
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	database.Module,
	cache.Module,
	http.Module,
	kafka.Module,
	telegram.Module,
	max.Module,
)
