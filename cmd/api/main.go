package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"complaint-insights-go/internal/apiclient"
	"complaint-insights-go/internal/dashboard"
	"complaint-insights-go/internal/filter"
	"complaint-insights-go/internal/logger"
	"complaint-insights-go/internal/types"
)

// drillDims maps chart-click query parameters to dimensions.
var drillDims = map[string]types.Dimension{
	"unit":                types.DimUnit,
	"market":              types.DimMarket,
	"bill_to_region":      types.DimRegion,
	"nature_of_complaint": types.DimNature,
	"customer_name":       types.DimCustomer,
	"month":               types.DimMonth,
	"status":              types.DimStatus,
	"complaint_mode":      types.DimMode,
	"department":          types.DimDepartment,
	"complaint_type":      types.DimType,
	"customer_type":       types.DimCustomerType,
}

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "complaint-insights-go").Info("starting service")

	apiBase := os.Getenv("COMPLAINTS_API_URL")
	if apiBase == "" {
		log.Fatal("COMPLAINTS_API_URL not set")
	}
	client := apiclient.New(apiBase, log)
	svc := dashboard.NewService(client, log)

	optionColumns := splitList(envOr("OPTION_COLUMNS", "market,status,department,customer_type"))

	mux := http.NewServeMux()

	// health
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		logger.New().WithRequest(r).Info("health check")
		fmt.Fprint(w, "ok")
	})

	// dashboard payload
	mux.HandleFunc("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		reqLog := log.WithRequest(r).WithField("handler", "dashboard")
		reqLog.Info("dashboard request received")

		q, err := parseQuery(r)
		if err != nil {
			reqLog.WithError(err).Warn("bad dashboard query")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		q.OptionColumns = optionColumns

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		start := time.Now()
		payload, err := svc.Build(ctx, q)
		reqLog.WithField("duration_ms", time.Since(start).Milliseconds()).Info("dashboard built")
		if err != nil {
			reqLog.WithError(err).Warn("dashboard build failed")
			writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": payload})
	})

	// row mutation passthrough
	mux.HandleFunc("/complaints", func(w http.ResponseWriter, r *http.Request) {
		handleMutation(w, r, client, log)
	})
	mux.HandleFunc("/complaints/", func(w http.ResponseWriter, r *http.Request) {
		handleMutation(w, r, client, log)
	})

	addr := fmt.Sprintf(":%s", envOr("PORT", "8080"))
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}

// parseQuery turns request parameters into a dashboard query. Filter
// parameters: year=2023, start_date/end_date (grid view), one value per
// drill-down dimension, and f_<column>=a,b,c multi-selects.
func parseQuery(r *http.Request) (dashboard.Query, error) {
	params := r.URL.Query()

	domain := params.Get("domain")
	if domain == "" {
		domain = "yarn"
	}
	if domain != "yarn" && domain != "fabric" {
		return dashboard.Query{}, fmt.Errorf("unknown domain %q", domain)
	}

	state := filter.State{
		Year:       params.Get("year"),
		Columns:    map[string][]string{},
		Selections: map[types.Dimension]string{},
	}

	if start, end := params.Get("start_date"), params.Get("end_date"); start != "" && end != "" {
		rng, err := filter.ParseRange(start, end)
		if err != nil {
			return dashboard.Query{}, fmt.Errorf("bad date range: %w", err)
		}
		state.Range = rng
	}

	for param, dim := range drillDims {
		if v := params.Get(param); v != "" {
			state.Selections[dim] = v
		}
	}
	for key, vals := range params {
		if !strings.HasPrefix(key, "f_") || len(vals) == 0 {
			continue
		}
		col := strings.TrimPrefix(key, "f_")
		state.Columns[col] = splitList(vals[0])
	}

	return dashboard.Query{
		Domain:    domain,
		Filter:    state,
		RatioMode: params.Get("ratio") == "true",
	}, nil
}

func handleMutation(w http.ResponseWriter, r *http.Request, client *apiclient.Client, log *logger.Logger) {
	reqLog := log.WithRequest(r).WithField("handler", "complaints")
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		domain = "yarn"
	}
	id := strings.TrimPrefix(r.URL.Path, "/complaints")
	id = strings.TrimPrefix(id, "/")

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	switch {
	case r.Method == http.MethodPost && id == "":
		var rec types.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		out, err := client.CreateComplaint(ctx, domain, rec)
		respondMutation(w, reqLog, out, err)
	case r.Method == http.MethodPut && id != "":
		var rec types.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		out, err := client.UpdateComplaint(ctx, domain, id, rec)
		respondMutation(w, reqLog, out, err)
	case r.Method == http.MethodDelete && id != "":
		err := client.DeleteComplaint(ctx, domain, id)
		respondMutation(w, reqLog, nil, err)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func respondMutation(w http.ResponseWriter, reqLog *logrus.Entry, data types.Record, err error) {
	if err != nil {
		reqLog.WithError(err).Warn("mutation failed")
		writeJSON(w, http.StatusBadGateway, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
