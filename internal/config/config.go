package config

import (
	"errors"
	"os"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Llaves públicas aceptadas para tokens de identidad (PEM, uno o más
	// bloques PUBLIC KEY). Pueden venir inline o desde archivo; se combinan.
	AuthTrustedKeys     string `env:"AUTH_TRUSTED_KEYS"`
	AuthTrustedKeysFile string `env:"AUTH_TRUSTED_KEYS_FILE"`
	AuthAlgorithms      string `env:"AUTH_ALGORITHMS" envDefault:"RS256"`
	AuthIssuer          string `env:"AUTH_ISSUER"`

	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"http://localhost:3000"`

	AuthRateLimitMax    int `env:"AUTH_RATE_LIMIT_MAX" envDefault:"30"`
	AuthRateLimitWindow int `env:"AUTH_RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
}

var ErrNoTrustedKeys = errors.New("no trusted keys configured")

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// TrustedKeyPEMs devuelve los bloques PEM aceptados, inline y de archivo.
// La verificación de firma no tiene opt-out: sin llaves el arranque falla.
func (c *Config) TrustedKeyPEMs() ([]string, error) {
	var raw []string
	if pem := strings.TrimSpace(c.AuthTrustedKeys); pem != "" {
		raw = append(raw, pem)
	}
	if path := strings.TrimSpace(c.AuthTrustedKeysFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = append(raw, string(data))
	}

	blocks := splitPEMBlocks(strings.Join(raw, "\n"))
	if len(blocks) == 0 {
		return nil, ErrNoTrustedKeys
	}
	return blocks, nil
}

// Algorithms devuelve la lista de algoritmos de firma aceptados.
func (c *Config) Algorithms() []string {
	return splitList(c.AuthAlgorithms, strings.ToUpper)
}

// Origins devuelve los orígenes permitidos para CORS.
func (c *Config) Origins() []string {
	return splitList(c.CORSOrigins, nil)
}

func splitList(value string, normalize func(string) string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if normalize != nil {
			p = normalize(p)
		}
		out = append(out, p)
	}
	return out
}

func splitPEMBlocks(pem string) []string {
	const begin = "-----BEGIN "
	const end = "-----END "
	const dashes = "-----"
	var blocks []string
	for {
		start := strings.Index(pem, begin)
		if start < 0 {
			return blocks
		}
		pem = pem[start:]
		endIdx := strings.Index(pem, end)
		if endIdx < 0 {
			return blocks
		}
		rest := endIdx + len(end)
		tail := strings.Index(pem[rest:], dashes)
		if tail < 0 {
			return blocks
		}
		blockEnd := rest + tail + len(dashes)
		blocks = append(blocks, strings.TrimSpace(pem[:blockEnd]))
		pem = pem[blockEnd:]
	}
}
