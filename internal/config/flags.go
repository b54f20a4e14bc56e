package config

import (
	"flag"
	"os"
	"time"

	"github.com/securestash/securestash/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   database DSN (postgres:// URL or SQLite file path)
//	-s string   token HMAC secret key
//	-t int      access token validity, minutes
//	-m int      verification attempt cap (0 = unlimited)
//	-l int      verification code TTL, minutes (0 = no expiry)
//	-e string   SMTP server address (host:port)
//	-f string   SMTP sender address
//	-u string   SMTP username
//	-p string   SMTP password
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components. Duration
// flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-m", "-l", "-e", "-f", "-u", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.IntVar(&config.VerificationMaxAttempts, "m", config.VerificationMaxAttempts, "verification attempt cap (0 = unlimited)")
	verificationCodeTTL := fs.Int("l", int(config.VerificationCodeTTL.Minutes()), "verification code TTL (in minutes, 0 = no expiry)")

	fs.StringVar(&config.SMTPAddr, "e", config.SMTPAddr, "SMTP server address")
	fs.StringVar(&config.SMTPFrom, "f", config.SMTPFrom, "SMTP sender address")
	fs.StringVar(&config.SMTPUsername, "u", config.SMTPUsername, "SMTP username")
	fs.StringVar(&config.SMTPPassword, "p", config.SMTPPassword, "SMTP password")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.VerificationCodeTTL = time.Duration(*verificationCodeTTL) * time.Minute
}
