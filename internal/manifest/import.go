package manifest

import (
	"context"
	"errors"
	"fmt"

	"github.com/ankek/terraform-provider-iconset/internal/interfaces"
	"github.com/ankek/terraform-provider-iconset/internal/registry"
)

// Failure is an entry that could not be imported.
type Failure struct {
	Entry Entry
	Err   error
}

// Report is the outcome of an import. Entries appear in manifest order.
type Report struct {
	Added  []registry.Record
	Failed []Failure
}

// Err joins the failures, or returns nil when every entry was added.
func (r Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, f := range r.Failed {
		errs = append(errs, fmt.Errorf("icon %q: %w", f.Entry.Name, f.Err))
	}
	return errors.Join(errs...)
}

// Import adds each entry through svc. A failing entry is recorded and the
// batch continues; cancellation marks the remaining entries as failed.
func Import(ctx context.Context, svc interfaces.Ingestor, opener interfaces.SourceOpener, entries []Entry) Report {
	var report Report
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, Failure{Entry: e, Err: err})
			continue
		}

		f, err := opener.Open(ctx, e.Source)
		if err != nil {
			report.Failed = append(report.Failed, Failure{Entry: e, Err: err})
			continue
		}
		rec, err := svc.AddIcon(ctx, f, e.Name)
		if err != nil {
			report.Failed = append(report.Failed, Failure{Entry: e, Err: err})
			continue
		}
		report.Added = append(report.Added, rec)
	}
	return report
}
