package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time is used for duration-typed settings
)

// Config holds all runtime configuration values. Each field corresponds
// to an environment variable. Access and refresh tokens are signed with
// separate secrets so one kind can never stand in for the other.
type Config struct {
    Env               string        // application environment ("dev", "test", "prod")
    Port              string        // HTTP port to listen on
    DBUser            string        // database username
    DBPass            string        // database password (optional)
    DBHost            string        // database host address
    DBPort            string        // database port number
    DBName            string        // database name
    AccessSecret      string        // secret used to sign access tokens
    RefreshSecret     string        // secret used to sign refresh tokens
    TokenIssuer       string        // iss claim on every token
    TokenAudience     string        // aud claim on every token
    AccessTTLMin      int           // access token time-to-live in minutes
    RefreshTTLDays    int           // refresh token time-to-live in days
    BcryptCost        int           // bcrypt cost for password hashing
    CookieDomain      string        // Domain attribute on auth cookies (empty = host-only)
    InactivityTimeout time.Duration // forced re-auth after this much idle time
    RateLimitEnabled  bool          // toggle for the credential-endpoint limiter
    RateLimitMax      int           // attempts allowed per window
    RateLimitWindow   time.Duration // window length for the limiter
}

// Load reads configuration values from environment variables and returns
// a Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
    return Config{
        Env:               must("APP_ENV"),
        Port:              must("APP_PORT"),
        DBUser:            must("DB_USER"),
        DBPass:            os.Getenv("DB_PASS"), // empty allowed
        DBHost:            must("DB_HOST"),
        DBPort:            must("DB_PORT"),
        DBName:            must("DB_NAME"),
        AccessSecret:      must("ACCESS_TOKEN_SECRET"),
        RefreshSecret:     must("REFRESH_TOKEN_SECRET"),
        TokenIssuer:       getenv("TOKEN_ISSUER", "job-board"),
        TokenAudience:     getenv("TOKEN_AUDIENCE", "job-board-clients"),
        AccessTTLMin:      envInt("ACCESS_TOKEN_TTL_MIN", 15),
        RefreshTTLDays:    envInt("REFRESH_TOKEN_TTL_DAYS", 7),
        BcryptCost:        envInt("BCRYPT_COST", 12),
        CookieDomain:      os.Getenv("COOKIE_DOMAIN"),
        InactivityTimeout: time.Duration(envInt("INACTIVITY_TIMEOUT_DAYS", 30)) * 24 * time.Hour,
        RateLimitEnabled:  getenv("RATE_LIMIT_ENABLED", "true") == "true",
        RateLimitMax:      envInt("RATE_LIMIT_MAX", 10),
        RateLimitWindow:   envDur("RATE_LIMIT_WINDOW", time.Minute),
    }
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envInt(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}

func envDur(key string, def time.Duration) time.Duration {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    d, err := time.ParseDuration(v)
    if err != nil {
        log.Fatalf("invalid duration for %s: %q", key, v)
    }
    return d
}
