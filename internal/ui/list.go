package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"mylar2kapowarr/internal/models"
)

var _ list.Item = entryItem{}

// entryItem wraps [models.SourceEntry] to implement [list.Item].
type entryItem struct {
	entry models.SourceEntry
}

func (i entryItem) FilterValue() string { return i.entry.Title }
func (i entryItem) Title() string       { return i.entry.Title }
func (i entryItem) Description() string {
	desc := i.entry.Status
	if desc == "" {
		desc = "unknown status"
	}
	if i.entry.ExternalID != "" {
		desc = fmt.Sprintf("%s • comicvine %s", desc, i.entry.ExternalID)
	} else {
		desc = fmt.Sprintf("%s • no comicvine id", desc)
	}
	if !i.entry.Monitored {
		desc = fmt.Sprintf("%s • unmonitored", desc)
	}
	return desc
}
