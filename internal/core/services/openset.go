package services

import (
	"context"
	"time"

	"github.com/uwfpm/readysync/internal/core/domain"
	"github.com/uwfpm/readysync/internal/core/ports/driven"
	"github.com/uwfpm/readysync/internal/logger"
)

// OpenSetBuilder fetches request records across the configured template
// list. The template list is injected at construction so category sets
// can vary per deployment without code change.
type OpenSetBuilder struct {
	api       driven.RequestAPI
	templates []string
}

// NewOpenSetBuilder creates a builder over the given template list.
func NewOpenSetBuilder(api driven.RequestAPI, templates []string) *OpenSetBuilder {
	return &OpenSetBuilder{
		api:       api,
		templates: templates,
	}
}

// Templates returns the configured template list.
func (b *OpenSetBuilder) Templates() []string {
	return b.templates
}

// RequestsInRange fetches all templates over the inclusive date range.
// The remote query does not filter on closed state; with onlyOpen set,
// closed records are discarded locally after fetch. A template whose
// fetch fails is skipped and recorded as a CategoryFailure: a single
// template's outage must not abort the whole pass. The only returned
// error is context cancellation.
func (b *OpenSetBuilder) RequestsInRange(
	ctx context.Context,
	start, end time.Time,
	onlyOpen bool,
) (*domain.FetchResult, error) {
	result := &domain.FetchResult{}

	for _, template := range b.templates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		records, err := b.api.RequestsByTemplate(ctx, template, start, end)
		if err != nil {
			logger.Warn("template %q failed for %s..%s: %v",
				template, domain.FormatDate(start), domain.FormatDate(end), err)
			result.Failures = append(result.Failures, domain.CategoryFailure{
				Template: template,
				Err:      err,
			})
			continue
		}

		kept := 0
		for _, rec := range records {
			if onlyOpen && rec.Closed {
				continue
			}
			result.Records = append(result.Records, rec)
			kept++
		}
		logger.Debug("template %q: %d fetched, %d kept", template, len(records), kept)
	}

	return result, nil
}

// OpenRequests returns the complete set of requests open on one
// calendar date: one query per configured template with the open-only
// filter applied. For an unchanged remote state two calls return the
// same identifier set, which keeps re-runs idempotent.
func (b *OpenSetBuilder) OpenRequests(ctx context.Context, day time.Time) (*domain.FetchResult, error) {
	return b.RequestsInRange(ctx, day, day, true)
}
