package config

type App struct {
	Port           string `env:"APP_PORT" default:"8080"`
	DatabaseURL    string `env:"DATABASE_URL,required"`
	JWTSecret      string `env:"JWT_SECRET,required"`
	PaygateBaseURL string `env:"PAYGATE_BASE_URL"`
	PaygateAPIKey  string `env:"PAYGATE_API_KEY"`
	SessionTTLMin  int    `env:"SESSION_TTL_MINUTES" default:"10"`
	Env            string `env:"APP_ENV" default:"dev"`
}
