package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Emotion EmotionConfig
	AI      AIConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	emotion, err := loadEmotionConfig()
	if err != nil {
		return nil, err
	}

	if emotion.Provider == ProviderArk && !ai.Enabled() {
		return nil, fmt.Errorf("EMOTION_PROVIDER=ark requires ARK_API_KEY (or ARK_ACCESS_KEY/ARK_SECRET_KEY) and Model")
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Log: logCfg, Emotion: emotion, AI: ai}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "4500"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":4500" 或 "127.0.0.1:4500"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level     string
	Format    string
	AddSource bool
}

func loadLogConfig() (LogConfig, error) {
	addSource, err := parseBoolEnv("LOG_ADD_SOURCE", false)
	if err != nil {
		return LogConfig{}, err
	}

	return LogConfig{
		Level:     strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Format:    strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text")),
		AddSource: addSource,
	}, nil
}

// Provider names accepted by EMOTION_PROVIDER.
const (
	ProviderWatson = "watson"
	ProviderArk    = "ark"
)

// EmotionConfig 描述情绪提供方配置。WatsonURL 与 ModelID 为空时由提供方使用默认值。
type EmotionConfig struct {
	Provider  string
	WatsonURL string
	ModelID   string
	Timeout   time.Duration
}

func loadEmotionConfig() (EmotionConfig, error) {
	provider := strings.ToLower(getEnvOrDefault("EMOTION_PROVIDER", ProviderWatson))
	if provider != ProviderWatson && provider != ProviderArk {
		return EmotionConfig{}, fmt.Errorf("invalid EMOTION_PROVIDER value %q: want %s or %s", provider, ProviderWatson, ProviderArk)
	}

	timeoutSeconds := 10
	timeout, err := parseOptionalIntEnv("EMOTION_TIMEOUT")
	if err != nil {
		return EmotionConfig{}, err
	}
	if timeout != nil {
		if *timeout < 0 {
			return EmotionConfig{}, fmt.Errorf("invalid EMOTION_TIMEOUT value %d: must not be negative", *timeout)
		}
		timeoutSeconds = *timeout
	}

	return EmotionConfig{
		Provider:  provider,
		WatsonURL: strings.TrimSpace(os.Getenv("WATSON_EMOTION_URL")),
		ModelID:   strings.TrimSpace(os.Getenv("WATSON_MODEL_ID")),
		Timeout:   time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// Enabled 表示是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel 使用配置创建一个模型实例。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("Ark 凭证或模型配置缺失，至少提供 ARK_API_KEY + Model 或 AK/SK 组合")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	var topP *float32
	if c.TopP != nil {
		val := float32(*c.TopP)
		topP = &val
	}

	var maxTokens *int
	if c.MaxTokens != nil {
		val := *c.MaxTokens
		maxTokens = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   maxTokens,
		Temperature: temperature,
		TopP:        topP,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	topP, err := parseOptionalFloatEnv("ARK_TOP_P")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		TopP:        topP,
		MaxTokens:   maxTokens,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
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
