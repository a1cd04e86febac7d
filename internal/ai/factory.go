package ai

import (
	"log"

	"github.com/fdg312/health-assistant/internal/config"
)

// NewProvider picks the backend once at startup. The result is shared by all handlers.
func NewProvider(cfg *config.Config) Provider {
	switch config.ParseAIMode(cfg.AIMode) {
	case config.AIModeNetworked:
		log.Printf("INFO ai: mode=%s model=%s", config.AIModeNetworked, DefaultModel)
		return NewNetworkedProvider(cfg.OpenAIAPIKey, WithLogger(log.Default()))
	default:
		log.Printf("INFO ai: mode=%s", config.AIModeDeterministic)
		return NewDeterministicProvider()
	}
}
