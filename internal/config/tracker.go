package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/certtrack/internal/certificates"
	"github.com/JaimeStill/certtrack/pkg/sheet"
)

const (
	EnvTrackerWarningDays       = "CERTTRACK_TRACKER_WARNING_DAYS"
	EnvTrackerMatchThreshold    = "CERTTRACK_TRACKER_MATCH_THRESHOLD"
	EnvTrackerHeaderFallbackRow = "CERTTRACK_TRACKER_HEADER_FALLBACK_ROW"
	EnvTrackerCertificateKey    = "CERTTRACK_TRACKER_CERTIFICATE_KEY"
	EnvTrackerContactLogKey     = "CERTTRACK_TRACKER_CONTACT_LOG_KEY"
	EnvTrackerExportFormat      = "CERTTRACK_TRACKER_EXPORT_FORMAT"
)

// TrackerConfig holds the certificate classification and contact log settings.
//
// HeaderFallbackRow is the zero-based row retried as the header when the first
// row yields nothing; a negative value disables the retry. CertificateKey is
// optional and names a stored certificate export loaded at startup.
type TrackerConfig struct {
	WarningDays       int     `toml:"warning_days"`
	MatchThreshold    float64 `toml:"match_threshold"`
	HeaderFallbackRow int     `toml:"header_fallback_row"`
	CertificateKey    string  `toml:"certificate_key"`
	ContactLogKey     string  `toml:"contact_log_key"`
	ExportFormat      string  `toml:"export_format"`
}

// LoaderConfig converts the tracker settings into a certificate loader config.
func (c *TrackerConfig) LoaderConfig() certificates.LoaderConfig {
	return certificates.LoaderConfig{
		WarningDays:       c.WarningDays,
		MatchThreshold:    c.MatchThreshold,
		HeaderFallbackRow: max(c.HeaderFallbackRow, 0),
	}
}

// Format returns ExportFormat as a sheet.Format.
func (c *TrackerConfig) Format() sheet.Format {
	f, ok := sheet.ParseFormat(c.ExportFormat)
	if !ok {
		return sheet.XLSX
	}
	return f
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *TrackerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *TrackerConfig) Merge(overlay *TrackerConfig) {
	if overlay.WarningDays != 0 {
		c.WarningDays = overlay.WarningDays
	}
	if overlay.MatchThreshold != 0 {
		c.MatchThreshold = overlay.MatchThreshold
	}
	if overlay.HeaderFallbackRow != 0 {
		c.HeaderFallbackRow = overlay.HeaderFallbackRow
	}
	if overlay.CertificateKey != "" {
		c.CertificateKey = overlay.CertificateKey
	}
	if overlay.ContactLogKey != "" {
		c.ContactLogKey = overlay.ContactLogKey
	}
	if overlay.ExportFormat != "" {
		c.ExportFormat = overlay.ExportFormat
	}
}

func (c *TrackerConfig) loadDefaults() {
	defaults := certificates.DefaultLoaderConfig()
	if c.WarningDays == 0 {
		c.WarningDays = defaults.WarningDays
	}
	if c.MatchThreshold == 0 {
		c.MatchThreshold = defaults.MatchThreshold
	}
	if c.HeaderFallbackRow == 0 {
		c.HeaderFallbackRow = defaults.HeaderFallbackRow
	}
	if c.ContactLogKey == "" {
		c.ContactLogKey = "contacts/contact_log.xlsx"
	}
	if c.ExportFormat == "" {
		c.ExportFormat = string(sheet.XLSX)
	}
}

func (c *TrackerConfig) loadEnv() {
	if v := os.Getenv(EnvTrackerWarningDays); v != "" {
		if days, err := strconv.Atoi(v); err == nil {
			c.WarningDays = days
		}
	}
	if v := os.Getenv(EnvTrackerMatchThreshold); v != "" {
		if threshold, err := strconv.ParseFloat(v, 64); err == nil {
			c.MatchThreshold = threshold
		}
	}
	if v := os.Getenv(EnvTrackerHeaderFallbackRow); v != "" {
		if row, err := strconv.Atoi(v); err == nil {
			c.HeaderFallbackRow = row
		}
	}
	if v := os.Getenv(EnvTrackerCertificateKey); v != "" {
		c.CertificateKey = v
	}
	if v := os.Getenv(EnvTrackerContactLogKey); v != "" {
		c.ContactLogKey = v
	}
	if v := os.Getenv(EnvTrackerExportFormat); v != "" {
		c.ExportFormat = v
	}
}

func (c *TrackerConfig) validate() error {
	if c.WarningDays < 0 {
		return fmt.Errorf("invalid warning_days: %d", c.WarningDays)
	}
	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		return fmt.Errorf("match_threshold must be in (0, 1]: %g", c.MatchThreshold)
	}
	if _, ok := sheet.ParseFormat(c.ExportFormat); !ok {
		return fmt.Errorf("invalid export_format %q", c.ExportFormat)
	}
	return nil
}
