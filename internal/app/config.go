package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"yashubustudio/cityresolver/cityresolver"
)

const (
	fyneAppID = "studio.yashubu.cityresolver"

	// configPath is empty so cityresolver falls back to ./config.json.
	configPath = ""
)

var errorPolicyChoices = []struct {
	Label string
	Value cityresolver.ErrorPolicy
}{
	{Label: "Пропускать строку", Value: cityresolver.OnErrorSkip},
	{Label: "Останавливать обработку", Value: cityresolver.OnErrorAbort},
}

func errorPolicyLabel(p cityresolver.ErrorPolicy) string {
	for _, c := range errorPolicyChoices {
		if c.Value == p {
			return c.Label
		}
	}
	return string(p)
}

// ensureCatalogFile writes the built-in catalog to path when the file does not
// exist yet, giving users a starting point for editing cities and aliases.
func ensureCatalogFile(path string, logger zerolog.Logger) {
	clean := strings.TrimSpace(path)
	if clean == "" {
		return
	}
	clean = filepath.Clean(clean)
	if _, err := os.Stat(clean); err == nil {
		return
	} else if !errors.Is(err, os.ErrNotExist) {
		logger.Warn().Err(err).Str("path", clean).Msg("ошибка проверки файла каталога")
		return
	}
	catalog, err := cityresolver.DefaultCatalog()
	if err != nil {
		logger.Error().Err(err).Msg("встроенный каталог повреждён")
		return
	}
	if err := cityresolver.SaveCatalogFile(clean, catalog); err != nil {
		logger.Warn().Err(err).Str("path", clean).Msg("не удалось создать файл каталога")
		return
	}
	logger.Info().Str("path", clean).Int("cities", len(catalog.Cities())).Msg("создан файл каталога")
}
