// Package catalog generates the self-documenting help listing.
//
// Extraction and rendering are separate stages: Extract turns the loaded
// task model into structured (name, description) entries, Render formats
// those entries for a terminal. The split keeps extraction testable without
// caring about terminal width or color support.
package catalog

import (
	"sort"
	"strings"

	"github.com/harel-coffee/tspipe-auto/internal/config"
)

// Entry is one documented task in the listing.
type Entry struct {
	Name        string
	Description string
}

// Extract produces the catalog entries for the given tasks. Tasks without
// a description are silently omitted. Entries are sorted by task name,
// case-insensitively, with the original name as a tie-breaker.
func Extract(tasks []*config.Task) []Entry {
	entries := make([]Entry, 0, len(tasks))
	for _, task := range tasks {
		if task.Description == "" {
			continue
		}
		entries = append(entries, Entry{
			Name:        task.Name,
			Description: task.Description,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if a != b {
			return a < b
		}
		// Task names are unique only case-sensitively, so names that
		// differ in case alone fold to the same key; the original
		// spelling keeps their order deterministic.
		return entries[i].Name < entries[j].Name
	})
	return entries
}
