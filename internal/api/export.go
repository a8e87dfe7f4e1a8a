package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ExportDateLayout is the dd/mm/yyyy format the export endpoint expects.
const ExportDateLayout = "02/01/2006"

// ExportRange is an inclusive date range for the SLA report.
type ExportRange struct {
	From time.Time
	To   time.Time
}

// DefaultExportRange covers the first day of now's month through now.
func DefaultExportRange(now time.Time) ExportRange {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return ExportRange{From: first, To: now}
}

// ParseExportDate parses a dd/mm/yyyy date.
func ParseExportDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ExportDateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, &ValidationError{Problems: []string{fmt.Sprintf("date %q must be dd/mm/yyyy", s)}}
	}
	return t, nil
}

// Validate rejects a range whose end is before its start.
func (r ExportRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return &ValidationError{Problems: []string{"export range needs both dates"}}
	}
	from := time.Date(r.From.Year(), r.From.Month(), r.From.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(r.To.Year(), r.To.Month(), r.To.Day(), 0, 0, 0, 0, time.UTC)
	if to.Before(from) {
		return &ValidationError{Problems: []string{fmt.Sprintf("export range ends (%s) before it starts (%s)",
			r.To.Format(ExportDateLayout), r.From.Format(ExportDateLayout))}}
	}
	return nil
}

// FileName returns the default download name,
// monitor_export_dd_mm_yyyy_to_dd_mm_yyyy.xlsx.
func (r ExportRange) FileName() string {
	from := strings.ReplaceAll(r.From.Format(ExportDateLayout), "/", "_")
	to := strings.ReplaceAll(r.To.Format(ExportDateLayout), "/", "_")
	return fmt.Sprintf("monitor_export_%s_to_%s.xlsx", from, to)
}

// ExportReport streams the SLA report for r into w and returns the number of
// bytes written. The body is an opaque backend-defined spreadsheet. The
// download is bounded by the export timeout, not the per-request one.
func (c *Client) ExportReport(ctx context.Context, r ExportRange, w io.Writer) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.exportTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("dateFrom", r.From.Format(ExportDateLayout))
	q.Set("dateTo", r.To.Format(ExportDateLayout))

	resp, err := c.do(ctx, http.MethodGet, "/monitor/export", q, nil)
	if err != nil {
		return 0, fmt.Errorf("export report: %w", err)
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, &NetworkError{Method: http.MethodGet, Path: "/monitor/export", Err: fmt.Errorf("read report: %w", err)}
	}
	return n, nil
}
