package groq

import (
	"log/slog"
	"net/http"
	"os"
	"time"
)

// Config for the Groq chat-completions client. Groq speaks the
// OpenAI-compatible wire format, so this also works against any other
// compatible endpoint by overriding BaseURL.
type Config struct {
	APIKey      string        // if empty, falls back to env GROQ_API_KEY
	BaseURL     string        // default https://api.groq.com/openai/v1
	Model       string        // e.g., "llama-3.1-8b-instant"
	Temperature float32       // 0..2
	MaxTokens   int           // completion token budget
	Timeout     time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "llama-3.1-8b-instant"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1500
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
