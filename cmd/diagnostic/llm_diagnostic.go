// File: cmd/diagnostic/llm_diagnostic.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/shadowai/shadowai/internal/services/ai"
)

// Standalone check that the configured completion endpoint accepts our
// credentials and returns a usable reply. Run it before pointing a deploy
// at a new LLM_BASE_URL.
func main() {
	fmt.Println("Testing completion endpoint...")

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	apiKey := os.Getenv("LLM_API_KEY")
	if apiKey == "" {
		log.Fatal("LLM_API_KEY not set in environment")
	}

	baseURL := os.Getenv("LLM_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.ai21.com/studio/v1"
	}
	model := os.Getenv("LLM_FREE_MODEL")
	if model == "" {
		model = "jamba-mini"
	}

	config := ai.DefaultConfig()
	config.APIKey = apiKey
	config.BaseURL = baseURL

	provider, err := ai.NewOpenAIProvider(config)
	if err != nil {
		log.Fatalf("Provider initialization failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	reply, err := provider.Complete(ctx, model, []ai.PromptMessage{
		{Role: "user", Content: "Reply with a single word: pong"},
	}, 50)
	if err != nil {
		log.Fatalf("Completion failed: %v", err)
	}

	fmt.Printf("Endpoint: %s\nModel:    %s\nReply:    %s\n", baseURL, model, reply)
}
