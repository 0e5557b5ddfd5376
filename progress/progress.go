// Package progress renders a terminal progress bar and the end-of-run
// summary for interactive use.
package progress

import (
	"sync"
	"time"

	"github.com/pterm/pterm"

	"github.com/ManassasDevAct/msg2txt/stats"
)

// Bar manages a progress bar over the batch items.
type Bar struct {
	pb      *pterm.ProgressbarPrinter
	total   int
	mu      sync.Mutex
	enabled bool
}

// New creates a progress bar when running interactively at the default log
// level; at other levels the bar stays silent so log lines remain readable.
func New(total int, logLevel string) *Bar {
	enabled := logLevel == "info" && total > 0

	bar := &Bar{total: total, enabled: enabled}

	if enabled {
		pb, _ := pterm.DefaultProgressbar.
			WithTotal(total).
			WithTitle("Converting messages").
			Start()
		bar.pb = pb
	}

	return bar
}

// Update advances the bar based on the event type.
func (b *Bar) Update(evt stats.Event) {
	if !b.enabled || b.pb == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch evt.Type {
	case stats.EventTypeScanned:
		b.pb.Increment()
		if evt.Item != "" {
			displayName := evt.Item
			if len(displayName) > 40 {
				displayName = displayName[:37] + "..."
			}
			b.pb.UpdateTitle("Converting: " + displayName)
		}
	case stats.EventTypeError:
		// Show errors above the progress bar; totals land in the summary.
		if evt.Err != nil {
			pterm.Error.Printf("%s: %v\n", evt.Item, evt.Err)
		}
	case stats.EventTypePDFFailed:
		if evt.Err != nil {
			pterm.Warning.Printf("PDF export skipped: %v\n", evt.Err)
		}
	}
}

// Stop finalizes the progress bar.
func (b *Bar) Stop() {
	if !b.enabled || b.pb == nil {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.pb.Current < b.total {
		b.pb.Current = b.total
	}
	b.pb.Stop()
}

// Summary prints the final statistics block.
func (b *Bar) Summary(summary stats.Summary, duration time.Duration, artifacts []string) {
	if !b.enabled {
		return
	}

	pterm.Println()
	pterm.DefaultSection.Println("Conversion Summary")
	pterm.Info.Printf("Duration: %v\n", duration)
	pterm.Info.Printf("Scanned: %d\n", summary.Scanned)
	pterm.Info.Printf("Converted: %d\n", summary.Converted)
	pterm.Info.Printf("Duplicates (skipped): %d\n", summary.Duplicates)
	pterm.Info.Printf("Filtered out: %d\n", summary.Filtered)
	pterm.Info.Printf("Errors: %d\n", summary.Errors)
	if summary.LastError != nil {
		pterm.Error.Printf("Last error: %v\n", summary.LastError)
	}
	for _, a := range artifacts {
		pterm.Success.Printf("Wrote %s\n", a)
	}
}
