package health

import (
	"encoding/json"
	"net/http"
)

// Handler serves the aggregated health state as JSON. Unhealthy maps to 503,
// everything else to 200.
func Handler(agg *Aggregator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := agg.CheckAll(r.Context())
		overall := OverallStatus(results)

		checks := make(map[string]any, len(results))
		for name, result := range results {
			check := map[string]any{
				"status":   result.Status.String(),
				"message":  result.Message,
				"duration": result.Duration.String(),
			}
			if result.Details != nil {
				check["details"] = result.Details
			}
			if result.Error != nil {
				check["error"] = result.Error.Error()
			}
			checks[name] = check
		}

		body := map[string]any{
			"status": overall.String(),
			"checks": checks,
		}

		w.Header().Set("Content-Type", "application/json")
		if overall == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(body)
	})
}
