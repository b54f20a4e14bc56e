package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/securestash/securestash/internal/flagx"
	"github.com/securestash/securestash/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "30m"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	VerificationMaxAttempts     int            `json:"verification_max_attempts"`
	VerificationCodeTTL         timex.Duration `json:"verification_code_ttl"`
	SMTPAddr                    string         `json:"smtp_addr"`
	SMTPFrom                    string         `json:"smtp_from"`
	SMTPUsername                string         `json:"smtp_username"`
	SMTPPassword                string         `json:"smtp_password"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path is resolved from the -c/-config flags via flagx.JsonConfigFlags; if
// no flag is given, no JSON is loaded. Read or unmarshal errors panic
// (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.EndpointAddrHTTP = jc.EndpointAddrHTTP
	cfg.DatabaseDSN = jc.DatabaseDSN
	cfg.SecretKey = jc.SecretKey
	cfg.AccessTokenValidityDuration = time.Duration(jc.AccessTokenValidityDuration.Duration)
	cfg.VerificationMaxAttempts = jc.VerificationMaxAttempts
	cfg.VerificationCodeTTL = time.Duration(jc.VerificationCodeTTL.Duration)
	cfg.SMTPAddr = jc.SMTPAddr
	cfg.SMTPFrom = jc.SMTPFrom
	cfg.SMTPUsername = jc.SMTPUsername
	cfg.SMTPPassword = jc.SMTPPassword
}
