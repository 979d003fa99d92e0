package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"
)

// Default configuration values.
// The URLs, selectors and titles match the AFPy site the tool was written for.
const (
	// DefaultLandingURL is the page whose layout hosts the planet.
	DefaultLandingURL = "http://www.afpy.org/"

	// DefaultFeedURL is the planet RSS feed.
	DefaultFeedURL = "http://www.afpy.org/planet/rss.xml"

	// DefaultPlanetTitle is the heading shown above the feed items.
	DefaultPlanetTitle = "Planète AFPy"

	// DefaultAutodiscoveryTitle is the title of the RSS autodiscovery link.
	DefaultAutodiscoveryTitle = "Flux RSS Planète AFPy"

	// DefaultContainerSelector selects the element whose content is replaced
	// by the rendered planet.
	DefaultContainerSelector = "#portal-column-content"

	// DefaultLanguage is the lang attribute of the regenerated <html> tag.
	DefaultLanguage = "fr"

	// DefaultTimeout bounds each HTTP request. Zero disables the timeout and
	// lets a slow server block the build indefinitely.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent identifies planetpage in HTTP requests.
	DefaultUserAgent = "planetpage/1.0 (+https://github.com/nao1215/planetpage)"

	// DefaultMaxBodySize is the largest response body accepted.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultHeaderSelector selects the navigation header exposed by the chrome command.
	DefaultHeaderSelector = "#portal-top"

	// DefaultStylesheetSelector selects the stylesheets exposed by the chrome command.
	DefaultStylesheetSelector = "head style, head link[rel=stylesheet]"

	// DefaultServeAddress is the listen address of the preview server.
	DefaultServeAddress = "127.0.0.1:8080"

	// AppName is the application name used for XDG directory paths.
	AppName = "planetpage"
)

// DefaultSessionSelectors returns the selectors of elements that only make sense
// for a logged-in visitor. The landing page is scraped without a session, so
// these are removed to keep the output stable.
func DefaultSessionSelectors() []string {
	return []string{"#portal-searchbox", "#portal-personaltools-wrapper"}
}

// DefaultNoSelfClose returns the tag names that must never be serialized as
// self-closing tags.
func DefaultNoSelfClose() []string {
	return []string{"script", "div"}
}

// Config holds all configuration options for planetpage.
// It is populated from defaults, the YAML file, the environment and CLI flags,
// in that order, and passed down explicitly rather than kept in global state.
type Config struct {
	// FeedURL is the URL of the planet RSS feed.
	FeedURL string `yaml:"feedURL,omitempty" env:"PLANETPAGE_FEED_URL"`

	// LandingURL is the URL of the HTML page the planet is merged into.
	LandingURL string `yaml:"landingURL,omitempty" env:"PLANETPAGE_LANDING_URL"`

	// ChromeURL is the page the chrome command scrapes stylesheets and the
	// navigation header from. Empty means LandingURL.
	ChromeURL string `yaml:"chromeURL,omitempty" env:"PLANETPAGE_CHROME_URL"`

	// IconPath is the RSS icon embedded next to the planet title.
	// Empty means the icon bundled with the binary.
	IconPath string `yaml:"iconPath,omitempty" env:"PLANETPAGE_ICON"`

	// PlanetTitle is the heading of the rendered planet.
	PlanetTitle string `yaml:"planetTitle,omitempty" env:"PLANETPAGE_PLANET_TITLE"`

	// AutodiscoveryTitle is the title attribute of the autodiscovery link.
	AutodiscoveryTitle string `yaml:"autodiscoveryTitle,omitempty" env:"PLANETPAGE_AUTODISCOVERY_TITLE"`

	// ContainerSelector selects the placeholder replaced by the planet.
	ContainerSelector string `yaml:"containerSelector,omitempty" env:"PLANETPAGE_CONTAINER"`

	// SessionSelectors select the elements removed from the landing page.
	SessionSelectors []string `yaml:"sessionSelectors,omitempty" env:"PLANETPAGE_SESSION_SELECTORS"`

	// NoSelfClose lists tags expanded to an open/close pair when found self-closed.
	NoSelfClose []string `yaml:"noSelfClose,omitempty" env:"PLANETPAGE_NO_SELF_CLOSE"`

	// Language is the lang attribute of the regenerated <html> tag (BCP 47).
	Language string `yaml:"language,omitempty" env:"PLANETPAGE_LANGUAGE"`

	// HeaderSelector selects the navigation header for the chrome command.
	HeaderSelector string `yaml:"headerSelector,omitempty" env:"PLANETPAGE_HEADER_SELECTOR"`

	// StylesheetSelector selects the stylesheets for the chrome command.
	StylesheetSelector string `yaml:"stylesheetSelector,omitempty" env:"PLANETPAGE_STYLESHEET_SELECTOR"`

	// Timeout is the per-request HTTP timeout. Zero disables it.
	Timeout time.Duration `yaml:"timeout,omitempty" env:"PLANETPAGE_TIMEOUT"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `yaml:"userAgent,omitempty" env:"PLANETPAGE_USER_AGENT"`

	// MaxBodySize is the largest response body accepted, in bytes. A larger
	// document fails the build. Zero means DefaultMaxBodySize.
	MaxBodySize int64 `yaml:"maxBodySize,omitempty" env:"PLANETPAGE_MAX_BODY_SIZE"`

	// History enables recording every build in the SQLite history database.
	History bool `yaml:"history" env:"PLANETPAGE_HISTORY"`

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/planetpage on Linux).
	DBDir string `yaml:"dbDir,omitempty" env:"PLANETPAGE_DB_DIR"`

	// ServeAddress is the listen address of the preview server.
	ServeAddress string `yaml:"serveAddress,omitempty" env:"PLANETPAGE_SERVE_ADDRESS"`

	// LogFile, when set, receives a JSON copy of every log record.
	LogFile string `yaml:"logFile,omitempty" env:"PLANETPAGE_LOG_FILE"`

	// Verbose enables debug logging. CLI only.
	Verbose bool `yaml:"-"`

	// ConfigFilePath is the configuration file that was loaded, if any. CLI only.
	ConfigFilePath string `yaml:"-"`

	// OutputPath is where the generated page is written. Empty means stdout. CLI only.
	OutputPath string `yaml:"-"`
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		FeedURL:            DefaultFeedURL,
		LandingURL:         DefaultLandingURL,
		PlanetTitle:        DefaultPlanetTitle,
		AutodiscoveryTitle: DefaultAutodiscoveryTitle,
		ContainerSelector:  DefaultContainerSelector,
		SessionSelectors:   DefaultSessionSelectors(),
		NoSelfClose:        DefaultNoSelfClose(),
		Language:           DefaultLanguage,
		HeaderSelector:     DefaultHeaderSelector,
		StylesheetSelector: DefaultStylesheetSelector,
		Timeout:            DefaultTimeout,
		UserAgent:          DefaultUserAgent,
		MaxBodySize:        DefaultMaxBodySize,
		History:            true,
		DBDir:              XDGDataDir(),
		ServeAddress:       DefaultServeAddress,
	}
}

// ChromeSource returns the URL the chrome command scrapes.
func (c *Config) ChromeSource() string {
	if c.ChromeURL != "" {
		return c.ChromeURL
	}
	return c.LandingURL
}

// XDGDataDir returns the XDG data directory for planetpage.
// On Linux: ~/.local/share/planetpage
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for planetpage.
// On Linux: ~/.config/planetpage
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors in errors.go.
func (c *Config) Validate() error {
	if !isHTTPURL(c.FeedURL) {
		return ErrInvalidFeedURL
	}
	if !isHTTPURL(c.LandingURL) {
		return ErrInvalidLandingURL
	}
	if c.ChromeURL != "" && !isHTTPURL(c.ChromeURL) {
		return ErrInvalidChromeURL
	}
	if strings.TrimSpace(c.ContainerSelector) == "" {
		return ErrNoContainerSelector
	}
	if _, err := language.Parse(c.Language); err != nil {
		return ErrInvalidLanguage
	}
	// Zero is allowed and disables the timeout
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.History && c.DBDir == "" {
		return ErrNoDBDir
	}
	return nil
}

// isHTTPURL reports whether raw is an absolute http or https URL with a host.
func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
