package models

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
)

// ToolDefinition describes one callable tool an agent may use.
type ToolDefinition struct {
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description" validate:"required"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// AgentConfig is the expected shape of Agent.Config.
type AgentConfig struct {
	Model        string           `json:"model" validate:"required"`
	SystemPrompt string           `json:"systemPrompt" validate:"max=8000"`
	Temperature  *float64         `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	MaxTokens    int              `json:"maxTokens" validate:"gte=0,lte=128000"`
	Tools        []ToolDefinition `json:"tools" validate:"omitempty,dive"`
}

var configValidator = validator.New()

// ValidateAgentConfig checks that raw decodes into AgentConfig and satisfies
// its constraints. An empty document is accepted for drafts.
func ValidateAgentConfig(raw datatypes.JSON) error {
	if len(raw) == 0 || string(raw) == "null" || string(raw) == "{}" {
		return nil
	}

	var cfg AgentConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return fmt.Errorf("invalid config structure: %w", err)
	}

	if err := configValidator.Struct(cfg); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}
