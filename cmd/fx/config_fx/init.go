package config_fx

import (
	"go.uber.org/fx"

	"healthybychoice/internal/config"
)

var Module = fx.Provide(config.Load)
