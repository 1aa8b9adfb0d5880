package config // package config loads application configuration from environment variables

import (
    "log"      // log is used to report configuration errors and halt execution
    "os"       // os provides access to environment variables
    "strconv"  // strconv converts strings to other types
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  The types reflect how the values are used in
// the application: strings for identifiers and secrets, ints for durations,
// costs and prices in cents.
type Config struct {
    Env                 string // application environment (e.g. "dev", "prod")
    Port                string // HTTP port to listen on
    DBUser              string // database username
    DBPass              string // database password (optional)
    DBHost              string // database host address
    DBPort              string // database port number
    DBName              string // database name
    JWTSecret           string // secret used to sign JWTs
    AccessTTLMin        int    // access token time‑to‑live in minutes
    RefreshTTLDays      int    // refresh token time‑to‑live in days
    BcryptCost          int    // bcrypt cost for password hashing
    GuideSurchargeCents int    // flat surcharge added to BONUS package totals
    BookingHoldHours    int    // hours until a fresh booking's hold expires
}

// Load reads configuration values from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Pricing and hold
// parameters fall back to defaults so a bare dev environment still boots.
func Load() Config {
    return Config{
        Env:                 must("APP_ENV"),             // environment (dev/test/prod)
        Port:                must("APP_PORT"),            // port to bind the HTTP server
        DBUser:              must("DB_USER"),             // database user
        DBPass:              os.Getenv("DB_PASS"),        // database password (empty allowed)
        DBHost:              must("DB_HOST"),             // database host
        DBPort:              must("DB_PORT"),             // database port
        DBName:              must("DB_NAME"),             // database name
        JWTSecret:           must("JWT_SECRET"),          // secret used for signing JWTs
        AccessTTLMin:        mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
        RefreshTTLDays:      mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
        BcryptCost:          mustInt("BCRYPT_COST"),      // bcrypt cost factor
        GuideSurchargeCents: intDefault("GUIDE_SURCHARGE_CENTS", 15000), // BONUS guide surcharge
        BookingHoldHours:    intDefault("BOOKING_HOLD_HOURS", 36),      // hold expiry window
    }
}

// SMTPConfig carries the credentials for the transactional mail sender.
// When Host is empty the mailer degrades to appending rendered messages
// to the notification log instead of dialing out.
type SMTPConfig struct {
    Host string // SMTP server host; empty disables real delivery
    Port string // SMTP server port
    User string // SMTP username (optional)
    Pass string // SMTP password (optional)
    From string // From address for outgoing mail
}

// LoadSMTP reads the optional SMTP settings.  None of these are required;
// notification delivery is best-effort.
func LoadSMTP() SMTPConfig {
    return SMTPConfig{
        Host: os.Getenv("SMTP_HOST"),
        Port: getenv("SMTP_PORT", "587"),
        User: os.Getenv("SMTP_USER"),
        Pass: os.Getenv("SMTP_PASS"),
        From: getenv("SMTP_FROM", "no-reply@lastminute.local"),
    }
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

// intDefault reads an optional integer variable, falling back to def when
// the variable is unset or malformed.
func intDefault(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Printf("invalid int for %s: %q, using default %d", key, v, def)
        return def
    }
    return n
}
