package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/edt2ics/internal/event"
)

// sortAliases maps accepted --sort values to an order
var sortAliases = map[string]event.SortOrder{
	"insertion":     event.SortInsertion,
	"source":        event.SortInsertion,
	"chronological": event.SortChronological,
	"date":          event.SortChronological,
}

// ParseSortOrder validates a --sort value
func ParseSortOrder(s string) (event.SortOrder, error) {
	order, ok := sortAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("invalid sort order: %s (must be 'insertion' or 'chronological')", s)
	}
	return order, nil
}
