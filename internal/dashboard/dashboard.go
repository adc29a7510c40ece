// Package dashboard assembles the full chart payload for one complaint
// domain: fetch, filter, aggregate. Output is fully derived and rebuilt
// wholesale on every request.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"complaint-insights-go/internal/aggregate"
	"complaint-insights-go/internal/apiclient"
	"complaint-insights-go/internal/filter"
	"complaint-insights-go/internal/logger"
	"complaint-insights-go/internal/types"
)

// ratioDims are re-sorted by the computed per-100 ratio in ratio mode.
var ratioDims = map[types.Dimension]bool{
	types.DimUnit:     true,
	types.DimMarket:   true,
	types.DimNature:   true,
	types.DimCustomer: true,
}

// chartTopN caps the nature/customer chart variants; the grid variants
// stay uncapped.
const chartTopN = 10

type Service struct {
	api *apiclient.Client
	log *logger.Logger
}

func NewService(api *apiclient.Client, log *logger.Logger) *Service {
	return &Service{api: api, log: log}
}

// Query is one dashboard request.
type Query struct {
	Domain    string
	Filter    filter.State
	RatioMode bool
	// OptionColumns lists the columns whose distinct values populate
	// the multi-select dropdowns. Empty means skip that fetch.
	OptionColumns []string
}

// Payload is everything one dashboard render needs.
type Payload struct {
	Domain      string                         `json:"domain"`
	Total       int                            `json:"total_complaints"`
	StatusCards types.GroupedResult            `json:"status_cards"`
	Charts      map[string]types.GroupedResult `json:"charts"`
	Grid        map[string]types.GroupedResult `json:"grid"`
	Options     map[string][]string            `json:"options,omitempty"`
	Highlights  []Highlight                    `json:"highlights"`
	GeneratedAt time.Time                      `json:"generated_at"`
}

// Build fetches records, dispatch baselines and dropdown options
// concurrently, then runs the filter + aggregation pipeline. The
// independent fetches are unordered; all must resolve before the
// payload reflects fresh data.
func (s *Service) Build(ctx context.Context, q Query) (Payload, error) {
	log := s.log.WithComponent("dashboard").WithField("domain", q.Domain)

	type recResult struct {
		records []types.Record
		err     error
	}
	recCh := make(chan recResult, 1)
	go func() {
		records, err := s.api.Complaints(ctx, q.Domain, nil)
		recCh <- recResult{records, err}
	}()

	type statsResult struct {
		stats types.DispatchStats
		err   error
	}
	var statsCh chan statsResult
	if q.RatioMode {
		statsCh = make(chan statsResult, 1)
		go func() {
			stats, err := s.api.DispatchStats(ctx, nil)
			statsCh <- statsResult{stats, err}
		}()
	}

	type optsResult struct {
		options map[string][]string
		err     error
	}
	var optsCh chan optsResult
	if len(q.OptionColumns) > 0 {
		optsCh = make(chan optsResult, 1)
		go func() {
			table := q.Domain + "_complaints"
			options := make(map[string][]string, len(q.OptionColumns))
			for _, col := range q.OptionColumns {
				values, err := s.api.UniqueValues(ctx, table, col)
				if err != nil {
					optsCh <- optsResult{nil, err}
					return
				}
				options[col] = values
			}
			optsCh <- optsResult{options, nil}
		}()
	}

	rec := <-recCh
	if rec.err != nil {
		return Payload{}, fmt.Errorf("fetch complaints: %w", rec.err)
	}

	var stats *types.DispatchStats
	if statsCh != nil {
		sr := <-statsCh
		if sr.err != nil {
			return Payload{}, fmt.Errorf("fetch dispatch stats: %w", sr.err)
		}
		stats = &sr.stats
	}

	var options map[string][]string
	if optsCh != nil {
		or := <-optsCh
		if or.err != nil {
			return Payload{}, fmt.Errorf("fetch dropdown options: %w", or.err)
		}
		options = or.options
	}

	records := q.Filter.Apply(rec.records)
	log.WithFields(map[string]any{
		"fetched":  len(rec.records),
		"included": len(records),
	}).Info("records filtered")

	payload := Payload{
		Domain:      q.Domain,
		Total:       len(records),
		Charts:      make(map[string]types.GroupedResult, len(types.AllDimensions)),
		Grid:        make(map[string]types.GroupedResult, 2),
		Options:     options,
		GeneratedAt: time.Now(),
	}

	for _, dim := range types.AllDimensions {
		opts := aggregate.Options{}
		if dim == types.DimNature || dim == types.DimCustomer {
			opts.TopN = chartTopN
			opts.NoBucket = filter.IsSynthetic(dim, q.Filter.Selections[dim])
			// grid variant: same bucketing policy, no cap
			payload.Grid[string(dim)] = aggregate.Group(records, dim, aggregate.Options{
				NoBucket: opts.NoBucket,
				Ratio:    ratioOption(q.RatioMode, dim, stats),
			})
		}
		opts.Ratio = ratioOption(q.RatioMode, dim, stats)
		payload.Charts[string(dim)] = aggregate.Group(records, dim, opts)
	}

	payload.StatusCards = payload.Charts[string(types.DimStatus)]
	payload.Highlights = Highlights(payload.Charts, payload.Total)
	return payload, nil
}

func ratioOption(ratioMode bool, dim types.Dimension, stats *types.DispatchStats) *types.DispatchStats {
	if !ratioMode || stats == nil || !ratioDims[dim] {
		return nil
	}
	return stats
}
