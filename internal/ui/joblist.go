// Package ui renders the server's HTML pages as templ components.
package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/a-h/templ"
)

// JobListItem carries the display data for one job row.
type JobListItem struct {
	ID        string
	State     string
	Algorithm string
	Mode      string
	Rects     int
	BoxSide   int
	Tick      int
	Score     string
	Outcome   string
	StartTime time.Time
	EndTime   *time.Time
	Error     string
}

// Elapsed returns the wall-clock duration of the job so far.
func (j JobListItem) Elapsed() time.Duration {
	if j.EndTime != nil {
		return j.EndTime.Sub(j.StartTime).Round(time.Millisecond)
	}
	return time.Since(j.StartTime).Round(time.Millisecond)
}

// JobList renders the job overview page.
func JobList(jobs []JobListItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, pageHead); err != nil {
			return err
		}
		if len(jobs) == 0 {
			if _, err := io.WriteString(w, `<p class="empty">No jobs yet. POST to /api/v1/jobs to start one.</p>`); err != nil {
				return err
			}
		} else {
			if err := jobTable(jobs).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, pageFoot)
		return err
	})
}

func jobTable(jobs []JobListItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<table><thead><tr>`+
			`<th>Job</th><th>State</th><th>Algorithm</th><th>Mode</th>`+
			`<th>Problem</th><th>Tick</th><th>Score</th><th>Outcome</th>`+
			`<th>Elapsed</th><th></th>`+
			`</tr></thead><tbody>`); err != nil {
			return err
		}
		for _, job := range jobs {
			if err := jobRow(job).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table>`)
		return err
	})
}

func jobRow(job JobListItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := templ.EscapeString(job.ID)
		short := id
		if len(short) > 8 {
			short = short[:8]
		}

		_, err := fmt.Fprintf(w,
			`<tr class="state-%s">`+
				`<td><code>%s</code></td>`+
				`<td>%s</td><td>%s</td><td>%s</td>`+
				`<td>%d rects / side %d</td>`+
				`<td>%d</td><td>%s</td><td>%s</td><td>%s</td>`+
				`<td><a href="/api/v1/jobs/%s/solution.png">image</a> `+
				`<a href="/api/v1/jobs/%s/status">status</a></td>`+
				`</tr>`,
			templ.EscapeString(job.State),
			short,
			templ.EscapeString(job.State),
			templ.EscapeString(job.Algorithm),
			templ.EscapeString(job.Mode),
			job.Rects, job.BoxSide,
			job.Tick,
			templ.EscapeString(job.Score),
			templ.EscapeString(job.Outcome),
			job.Elapsed(),
			id, id,
		)
		if err != nil {
			return err
		}
		if job.Error != "" {
			_, err = fmt.Fprintf(w,
				`<tr class="error-row"><td colspan="10">%s</td></tr>`,
				templ.EscapeString(job.Error))
		}
		return err
	})
}

const pageHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>boxpack jobs</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; color: #222; }
h1 { font-size: 1.4rem; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4rem 0.8rem; border-bottom: 1px solid #ddd; }
th { font-size: 0.8rem; text-transform: uppercase; color: #666; }
code { font-size: 0.85rem; }
.state-running td:nth-child(2) { color: #1a73e8; }
.state-completed td:nth-child(2) { color: #188038; }
.state-failed td:nth-child(2), .error-row td { color: #d93025; }
.empty { color: #666; }
</style>
</head>
<body>
<h1>Packing jobs</h1>
`

const pageFoot = `</body>
</html>
`
