package i18n_fx

import (
	"go.uber.org/fx"

	"healthybychoice/internal/config"
	"healthybychoice/pkg/i18n"
)

var Module = fx.Provide(provideTranslator)

func provideTranslator(cfg *config.Config) (*i18n.Translator, error) {
	return i18n.NewTranslator(cfg.DefaultLocale)
}
