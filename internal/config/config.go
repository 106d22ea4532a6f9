package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appDirName = "assistant"

// Config aggregates all client settings.
type Config struct {
	API    APIConfig
	Speech SpeechConfig
	UI     UIConfig
}

// APIConfig describes the remote API the client talks to.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SpeechConfig describes the speech-recognition service. Enabled is false
// when no endpoint is configured; the client then degrades to text-only input.
type SpeechConfig struct {
	RecognizeURL string
	Language     string
	Recorder     string
	Enabled      bool
}

// UIConfig holds presentation-level settings.
type UIConfig struct {
	Theme         string
	SpeakingDelay time.Duration
}

// fileConfig is the optional on-disk config, merged below env overrides.
type fileConfig struct {
	API struct {
		BaseURL        string `yaml:"base_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"api"`
	Speech struct {
		RecognizeURL string `yaml:"recognize_url"`
		Language     string `yaml:"language"`
		Recorder     string `yaml:"recorder"`
	} `yaml:"speech"`
	UI struct {
		Theme string `yaml:"theme"`
	} `yaml:"ui"`
}

// Load builds the configuration from the optional config file overlaid with
// environment variables.
func Load() (*Config, error) {
	file := loadFileConfig()

	api, err := loadAPIConfig(file)
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig(file)
	if err != nil {
		return nil, err
	}

	ui, err := loadUIConfig(file)
	if err != nil {
		return nil, err
	}

	return &Config{API: api, Speech: speech, UI: ui}, nil
}

func loadAPIConfig(file fileConfig) (APIConfig, error) {
	baseURL := strings.TrimSpace(os.Getenv("ASSISTANT_API_URL"))
	if baseURL == "" {
		baseURL = file.API.BaseURL
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := 10 * time.Second
	if file.API.TimeoutSeconds > 0 {
		timeout = time.Duration(file.API.TimeoutSeconds) * time.Second
	}
	if override, err := parseOptionalIntEnv("ASSISTANT_HTTP_TIMEOUT"); err != nil {
		return APIConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return APIConfig{}, fmt.Errorf("invalid ASSISTANT_HTTP_TIMEOUT value: %d", *override)
		}
		timeout = time.Duration(*override) * time.Second
	}

	return APIConfig{BaseURL: baseURL, Timeout: timeout}, nil
}

func loadSpeechConfig(file fileConfig) (SpeechConfig, error) {
	url := strings.TrimSpace(os.Getenv("ASSISTANT_SPEECH_URL"))
	if url == "" {
		url = file.Speech.RecognizeURL
	}

	language := getEnvOrDefault("ASSISTANT_SPEECH_LANGUAGE", file.Speech.Language)
	if language == "" {
		language = "en-US"
	}

	recorder := getEnvOrDefault("ASSISTANT_RECORDER", file.Speech.Recorder)

	return SpeechConfig{
		RecognizeURL: url,
		Language:     language,
		Recorder:     recorder,
		Enabled:      url != "",
	}, nil
}

func loadUIConfig(file fileConfig) (UIConfig, error) {
	theme := getEnvOrDefault("ASSISTANT_THEME", file.UI.Theme)

	delay := 2 * time.Second
	if override, err := parseOptionalIntEnv("ASSISTANT_SPEAKING_DELAY"); err != nil {
		return UIConfig{}, err
	} else if override != nil {
		if *override < 0 {
			return UIConfig{}, fmt.Errorf("invalid ASSISTANT_SPEAKING_DELAY value: %d", *override)
		}
		delay = time.Duration(*override) * time.Millisecond
	}

	return UIConfig{Theme: theme, SpeakingDelay: delay}, nil
}

func loadFileConfig() fileConfig {
	var cfg fileConfig
	data, err := os.ReadFile(Path())
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fileConfig{}
	}
	return cfg
}

// Path returns the config file location.
func Path() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName, "config.yaml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appDirName, "config.yaml")
}

// StorageFile returns the location of the persistent key-value store.
func StorageFile() string {
	return filepath.Join(stateDir(), "storage.json")
}

// LogFile returns the location of the diagnostics log.
func LogFile() string {
	return filepath.Join(stateDir(), "assistant.log")
}

func stateDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appDirName)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
