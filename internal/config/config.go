package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	ProviderGroq   = "groq"
	ProviderOpenAI = "openai"

	groqBaseURL      = "https://api.groq.com/openai/v1"
	defaultGroqModel = "llama-3.3-70b-versatile"
	defaultGPTModel  = "gpt-4o-mini"
)

type Config struct {
	LogLevel string         `toml:"log_level"`
	N8N      N8NConfig      `toml:"n8n"`
	Defaults DefaultsConfig `toml:"defaults"`
	LiveKit  LiveKitConfig  `toml:"livekit"`
	LLM      LLMConfig      `toml:"llm"`
	Sarvam   SarvamConfig   `toml:"sarvam"`
	Server   ServerConfig   `toml:"server"`
	Worker   WorkerConfig   `toml:"worker"`
	Trace    TraceConfig    `toml:"trace"`
	DB       DBConfig       `toml:"db"`
}

// N8NConfig points at the workflow-automation webhooks. An empty BaseURL
// disables them.
type N8NConfig struct {
	BaseURL            string `toml:"base_url"`
	ConfigWebhook      string `toml:"config_webhook"`
	LeadCaptureWebhook string `toml:"lead_capture_webhook"`
}

type DefaultsConfig struct {
	Language string `toml:"language"`
	Voice    string `toml:"voice"`
}

type LiveKitConfig struct {
	URL        string `toml:"url"`
	APIKey     string `toml:"api_key"`
	APISecret  string `toml:"api_secret"`
	CreateRoom bool   `toml:"create_room"`
}

type LLMConfig struct {
	Provider     string `toml:"provider"`
	Model        string `toml:"model"`
	GroqAPIKey   string `toml:"groq_api_key"`
	OpenAIAPIKey string `toml:"openai_api_key"`
}

type SarvamConfig struct {
	APIKey string `toml:"api_key"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type WorkerConfig struct {
	Addr         string `toml:"addr"`
	WebServerURL string `toml:"web_server_url"`
	AgentName    string `toml:"agent_name"`
}

type TraceConfig struct {
	Endpoint string `toml:"endpoint"`
	URLPath  string `toml:"url_path"`
	APIKey   string `toml:"api_key"`
}

type DBConfig struct {
	Path string `toml:"path"`
}

// Load builds the configuration from defaults, an optional TOML file and the
// environment, in that order. A .env file in the working directory is read
// first without overriding variables that are already set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	path := Path()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		N8N: N8NConfig{
			ConfigWebhook:      "/webhook/agent-config",
			LeadCaptureWebhook: "/webhook/lead-capture",
		},
		Defaults: DefaultsConfig{
			Language: "hi-IN",
			Voice:    "arya",
		},
		LLM: LLMConfig{
			Provider: ProviderGroq,
		},
		Server: ServerConfig{
			Port: "3000",
		},
		Worker: WorkerConfig{
			Addr:         ":8081",
			WebServerURL: "http://localhost:3000",
			AgentName:    "leadvoice-agent",
		},
		DB: DBConfig{
			Path: defaultDBPath(),
		},
	}
}

func (c *Config) applyEnv() {
	setString(&c.LogLevel, "LOG_LEVEL")

	setString(&c.N8N.BaseURL, "N8N_BASE_URL")
	setString(&c.N8N.ConfigWebhook, "N8N_WEBHOOK_AGENT_CONFIG")
	setString(&c.N8N.LeadCaptureWebhook, "N8N_WEBHOOK_LEAD_CAPTURE")

	setString(&c.Defaults.Language, "DEFAULT_LANGUAGE")
	setString(&c.Defaults.Voice, "DEFAULT_VOICE")

	setString(&c.LiveKit.URL, "LIVEKIT_URL")
	setString(&c.LiveKit.APIKey, "LIVEKIT_API_KEY")
	setString(&c.LiveKit.APISecret, "LIVEKIT_API_SECRET")
	setBool(&c.LiveKit.CreateRoom, "LIVEKIT_CREATE_ROOM")

	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.Model, "LLM_MODEL")
	setString(&c.LLM.GroqAPIKey, "GROQ_API_KEY")
	setString(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")

	setString(&c.Sarvam.APIKey, "SARVAM_API_KEY")

	setString(&c.Server.Port, "WEB_PORT")
	setString(&c.Worker.Addr, "WORKER_ADDR")
	setString(&c.Worker.WebServerURL, "WEB_SERVER_URL")
	setString(&c.Worker.AgentName, "WORKER_AGENT_NAME")

	setString(&c.Trace.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setString(&c.Trace.URLPath, "OTEL_EXPORTER_OTLP_TRACES_PATH")
	setString(&c.Trace.APIKey, "OTEL_API_KEY")

	setString(&c.DB.Path, "TRANSCRIPT_DB")
}

// ServerAddr is the web server listen address.
func (c *Config) ServerAddr() string {
	if strings.Contains(c.Server.Port, ":") {
		return c.Server.Port
	}
	return ":" + c.Server.Port
}

// Endpoint returns the base URL, API key and model for the configured LLM
// provider. Groq is the default; any other provider name selects OpenAI.
func (l LLMConfig) Endpoint() (baseURL, apiKey, model string) {
	if l.Provider == "" || strings.EqualFold(l.Provider, ProviderGroq) {
		model = l.Model
		if model == "" {
			model = defaultGroqModel
		}
		return groqBaseURL, l.GroqAPIKey, model
	}
	model = l.Model
	if model == "" {
		model = defaultGPTModel
	}
	return "", l.OpenAIAPIKey, model
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Path is the TOML file Load reads: LEADVOICE_CONFIG, or config.toml under
// the user config directory.
func Path() string {
	if p := os.Getenv("LEADVOICE_CONFIG"); p != "" {
		return p
	}
	dir, _ := os.UserConfigDir()
	return filepath.Join(dir, "leadvoice", "config.toml")
}

// WriteDefaults writes the default configuration to path as TOML. It refuses
// to overwrite an existing file.
func WriteDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(Defaults())
}

func defaultDBPath() string {
	dir, _ := os.UserHomeDir()
	return filepath.Join(dir, ".local", "share", "leadvoice", "transcripts.db")
}
