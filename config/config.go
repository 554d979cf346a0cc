package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del mercado.
type Config struct {
	Market   MarketConfig   `yaml:"market"`
	Provider ProviderConfig `yaml:"provider"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// MarketConfig controla los jobs del simulador.
type MarketConfig struct {
	TickCron    string  `yaml:"tick_cron"`    // expresión cron (con segundos) del tick de precios
	RotateCron  string  `yaml:"rotate_cron"`  // rotación del sector activo
	RefreshCron string  `yaml:"refresh_cron"` // refresco de contenido + sweep de resolución
	ShockCron   string  `yaml:"shock_cron"`   // tirada de shock aleatorio
	ShockChance float64 `yaml:"shock_chance"` // probabilidad por tirada, 0 deshabilita
	Subreddit   string  `yaml:"subreddit"`    // vacío = front page
	FetchLimit  int     `yaml:"fetch_limit"`
	Seed        int64   `yaml:"seed"` // 0 = semilla por reloj
}

// ProviderConfig contiene los parámetros del cliente de Reddit.
type ProviderConfig struct {
	BaseURL   string `yaml:"base_url"`
	UserAgent string `yaml:"user_agent"`
}

// StorageConfig controla dónde se persisten los portfolios.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("REDDIT_BASE_URL"); v != "" {
		cfg.Provider.BaseURL = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		cfg.Provider.UserAgent = v
	}
	if v := os.Getenv("MEMEMARKET_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Market.TickCron == "" {
		cfg.Market.TickCron = "*/30 * * * * *"
	}
	if cfg.Market.RotateCron == "" {
		cfg.Market.RotateCron = "0 0 */2 * * *"
	}
	if cfg.Market.RefreshCron == "" {
		cfg.Market.RefreshCron = "0 */5 * * * *"
	}
	if cfg.Market.ShockCron == "" {
		cfg.Market.ShockCron = "0 */10 * * * *"
	}
	if cfg.Market.ShockChance < 0 {
		cfg.Market.ShockChance = 0
	}
	if cfg.Market.FetchLimit <= 0 {
		cfg.Market.FetchLimit = 25
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://www.reddit.com"
	}
	if cfg.Provider.UserAgent == "" {
		cfg.Provider.UserAgent = "mememarket/1.0 (virtual prediction market)"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "mememarket.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
