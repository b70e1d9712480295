package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Photo retrieval strategies accepted by [PhotosConfig.Strategy].
const (
	StrategyLibrary = "library"
	StrategyScrape  = "scrape"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
	Photos      PhotosConfig      `toml:"photos"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Google GoogleConfig `toml:"google"`
}

// GoogleConfig contains Google OAuth2 client credentials and, once `ponyseeo auth` has run, the CLI's stored token.
type GoogleConfig struct {
	ClientID     string    `toml:"client_id"`
	ClientSecret string    `toml:"client_secret"`
	RedirectURI  string    `toml:"redirect_uri"`
	AccessToken  string    `toml:"access_token,omitempty"`
	RefreshToken string    `toml:"refresh_token,omitempty"`
	Expiry       time.Time `toml:"expiry,omitempty"`

	// Endpoint overrides, mostly useful against a local fake provider.
	AuthURL     string `toml:"auth_url,omitempty"`
	TokenURL    string `toml:"token_url,omitempty"`
	UserInfoURL string `toml:"userinfo_url,omitempty"`
}

// Map returns the credentials in the shape expected by services.NewGoogleService.
func (g GoogleConfig) Map() map[string]string {
	m := map[string]string{
		"client_id":     g.ClientID,
		"client_secret": g.ClientSecret,
		"redirect_uri":  g.RedirectURI,
	}
	if g.AuthURL != "" {
		m["auth_url"] = g.AuthURL
	}
	if g.TokenURL != "" {
		m["token_url"] = g.TokenURL
	}
	if g.UserInfoURL != "" {
		m["userinfo_url"] = g.UserInfoURL
	}
	return m
}

// Update stores the access and refresh token from an OAuth2 exchange.
//
// A token without a refresh token keeps the previously stored one, matching Google's behavior of only issuing refresh tokens on consent.
func (g *GoogleConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidCredentials)
	}

	g.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		g.RefreshToken = token.RefreshToken
	}
	g.Expiry = token.Expiry
	return nil
}

// Token returns the stored token, or nil when `ponyseeo auth` has not been run.
func (g GoogleConfig) Token() *oauth2.Token {
	if g.AccessToken == "" && g.RefreshToken == "" {
		return nil
	}
	return &oauth2.Token{
		AccessToken:  g.AccessToken,
		RefreshToken: g.RefreshToken,
		Expiry:       g.Expiry,
		TokenType:    "Bearer",
	}
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	BaseURL   string  `toml:"base_url"`
	Dev       bool    `toml:"dev"`
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

// Addr returns the host:port pair the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// PhotosConfig selects and configures the video retrieval strategy.
type PhotosConfig struct {
	Strategy string `toml:"strategy"`
	APIURL   string `toml:"api_url"`
	AlbumURL string `toml:"album_url"`
	PageSize int    `toml:"page_size"`
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Photos.Strategy {
	case "", StrategyLibrary:
	case StrategyScrape:
		if c.Photos.AlbumURL == "" {
			return fmt.Errorf("%w: photos.album_url is required for the scrape strategy", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown photos.strategy %q", ErrInvalidConfig, c.Photos.Strategy)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidConfig, c.Server.Port)
	}

	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes the configuration back to path, replacing any existing file.
//
// The file holds client secrets and tokens, so it is written owner-readable only.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
