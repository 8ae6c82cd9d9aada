package app

import (
	"fmt"
	"log/slog"

	"github.com/ParamD12/taskhub-app/pkg/cryptox"
)

// InitSealer builds the sealer protecting persisted session tokens.
//
// Key sources, in order:
//   - TASKHUB_MASTER_KEY_PATH: key material read from a file.
//   - TASKHUB_MASTER_KEY: key material taken from the environment.
//   - neither: a random key held in memory only. Sessions persisted under it
//     cannot be opened after a restart, so the user signs in again.
func InitSealer(cfg Config, logger *slog.Logger) (*cryptox.Sealer, error) {
	material, source, err := cryptox.LoadMasterKey(cfg.MasterKeyPath, cfg.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load master key: %w", err)
	}

	sealer, err := cryptox.NewSealer(material)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sealer: %w", err)
	}

	switch source {
	case cryptox.MasterKeyFromEphemeral:
		logger.Warn("no master key configured, persisted sessions will not survive a restart")
	case cryptox.MasterKeyFromFile:
		logger.Info("master key loaded", "source", source, "path", cfg.MasterKeyPath)
	default:
		logger.Info("master key loaded", "source", source)
	}

	return sealer, nil
}
