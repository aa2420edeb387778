package config

// ServerConfig holds HTTP surface settings not covered by chi-demo's AppConfig
type ServerConfig struct {
	APIPrefix          string   `env:"API_PREFIX" env-default:"/api/auth"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"*"`
	LogFormat          string   `env:"LOG_FORMAT" env-default:"text"`
}

func (s ServerConfig) Validate() ValidationErrors {
	return CollectErrors(
		RequireNonEmpty("API_PREFIX", s.APIPrefix),
		RequireOneOf("LOG_FORMAT", s.LogFormat, []string{"text", "json"}),
	)
}
