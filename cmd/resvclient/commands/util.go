package commands

import (
	"fmt"

	"github.com/arvindgk/facilityresv/internal/logger"
)

// InitLogger initializes the structured logger from CLI-provided settings.
func InitLogger(level, format string) error {
	cfg := logger.Config{Level: level, Format: format, Output: "stdout"}
	if err := logger.Init(cfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}
