package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TokenEnv is the environment variable holding the Figma access token.
const TokenEnv = "FIGMA_ACCESS_TOKEN"

// ErrMissingToken is returned when no access token is configured.
var ErrMissingToken = errors.New(TokenEnv + " environment variable is not set")

// GetFigmaToken returns the Figma personal access token
func GetFigmaToken() string {
	return strings.TrimSpace(viper.GetString("figma.token"))
}

// RequireToken returns the access token or ErrMissingToken
func RequireToken() (string, error) {
	token := GetFigmaToken()
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// GetAPIURL returns the Figma API base URL
func GetAPIURL() string {
	return viper.GetString("figma.api_url")
}

// GetTimeout returns the per-request HTTP timeout
func GetTimeout() time.Duration {
	return viper.GetDuration("figma.timeout")
}

// GetSyncConfigPath returns the path of the shared sync config
func GetSyncConfigPath() string {
	return viper.GetString("sync.config")
}

// GetIconConcurrency returns how many icon downloads may run at once
func GetIconConcurrency() int {
	n := viper.GetInt("icons.concurrency")
	if n < 1 {
		return 1
	}
	return n
}

// GetIconExclude returns glob patterns of icon names to skip
func GetIconExclude() []string {
	return viper.GetStringSlice("icons.exclude")
}

// GetAliasSuggestEnabled reports whether embedding-based alias suggestion runs
func GetAliasSuggestEnabled() bool {
	return viper.GetBool("aliases.suggest")
}

// GetOllamaURL returns the embedding server URL
func GetOllamaURL() string {
	return viper.GetString("aliases.ollama_url")
}

// GetEmbeddingModel returns the embedding model name
func GetEmbeddingModel() string {
	return viper.GetString("aliases.model")
}

// GetAliasThreshold returns the minimum similarity for a suggestion
func GetAliasThreshold() float64 {
	return viper.GetFloat64("aliases.threshold")
}

// GetEmbeddingCacheDir returns where embeddings are cached on disk
func GetEmbeddingCacheDir() string {
	return viper.GetString("aliases.cache_dir")
}
