package skill

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"
)

// Diagnostics serves the operational endpoints. No business logic.
type Diagnostics struct {
	Version string
}

func (d *Diagnostics) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status":    "OK",
		"message":   "Bug Hunt API is running",
		"version":   d.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (d *Diagnostics) VersionInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"version":     d.Version,
		"environment": envOrDefault("APP_ENV", "development"),
	})
}

// Env dumps environment variables with credentials masked.
func (d *Diagnostics) Env(w http.ResponseWriter, r *http.Request) {
	vars := map[string]string{}
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if isSensitive(k) {
			if v != "" {
				v = "***MASKED***"
			}
		}
		vars[k] = v
	}

	writeJSON(w, map[string]any{
		"total_vars": len(vars),
		"vars":       vars,
	})
}

func isSensitive(key string) bool {
	k := strings.ToLower(key)
	return strings.Contains(k, "key") || strings.Contains(k, "token") || strings.Contains(k, "secret") || strings.Contains(k, "password")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
