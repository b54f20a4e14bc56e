// Package config handles configuration for the SecureStash server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the SecureStash server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the public HTTP API.
//   - DatabaseDSN: storage location. A postgres:// DSN selects the Postgres
//     backend (pgx); anything else is treated as a SQLite file path.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use
//     test defaults in prod.
//   - AccessTokenValidityDuration: session token lifetime.
//   - VerificationMaxAttempts: failed code submissions allowed before a
//     pending verification drops back to locked. 0 disables the cap.
//   - VerificationCodeTTL: how long a dispatched code stays valid. 0 disables
//     expiry.
//   - SMTPAddr / SMTPFrom / SMTPUsername / SMTPPassword: outgoing mail
//     settings for the verification-code dispatcher. With an empty SMTPAddr
//     codes are written to the log instead of being mailed.
type Config struct {
	EndpointAddrHTTP            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	VerificationMaxAttempts     int
	VerificationCodeTTL         time.Duration
	SMTPAddr                    string
	SMTPFrom                    string
	SMTPUsername                string
	SMTPPassword                string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = "securestash.db"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 30 * time.Minute
	c.VerificationMaxAttempts = 0
	c.VerificationCodeTTL = 0
	c.SMTPAddr = ""
	c.SMTPFrom = "no-reply@securestash.example"
	c.SMTPUsername = ""
	c.SMTPPassword = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
