// File: internal/services/chat/config.go
package chat

import "fmt"

type Config struct {
	// Prompt Configuration
	SystemPrompt  string // Fixed instruction prepended to every completion request
	HistoryWindow int    // Maximum prior messages included per prompt

	// Title Configuration
	TitleMaxLen  int // Inputs at or under this rune count become the title verbatim
	TitleKeepLen int // Runes kept before the ellipsis when truncating
}

func (c *Config) Validate() error {
	if c.SystemPrompt == "" {
		return fmt.Errorf("system_prompt is required")
	}
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("history_window must be positive")
	}
	if c.HistoryWindow > 100 {
		return fmt.Errorf("history_window cannot exceed 100")
	}
	if c.TitleKeepLen <= 0 || c.TitleKeepLen >= c.TitleMaxLen {
		return fmt.Errorf("title_keep_len must be positive and below title_max_len")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		HistoryWindow: 10,
		TitleMaxLen:   50,
		TitleKeepLen:  47,
	}
}
