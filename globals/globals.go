package globals

import (
	"context"
	"os"
	"strconv"
)

var (
	JwtSecret = []byte(envString("JWT_SECRET", "your_secret_key"))

	// Pricing tunables. Defaults match the historical hardcoded values.
	TaxRate = envFloat("PLANNER_TAX_RATE", 0.16)
	FxRate  = envFloat("PLANNER_FX_RATE", 0.9)
)

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
