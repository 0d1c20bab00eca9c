// Package matcher normalizes Mylar's loosely-typed series and issue records
// and matches issues between the two services.
//
// Mylar's API reports the same logical attribute under different field names
// depending on the command and server version (getIndex vs getComics vs
// getSeries). Each attribute has an ordered priority table of candidate keys;
// new API variants are handled by extending the tables here, not by adding
// conditionals to the engine.
package matcher

import (
	"fmt"
	"strings"

	"mylar2kapowarr/internal/models"
)

// UnknownTitle is the sentinel used when no title field is present.
const UnknownTitle = "Unknown Title"

// externalIDSeparator joins a catalog shard prefix to the numeric id,
// e.g. "4050-145299".
const externalIDSeparator = "-"

// Key priority tables, tried in order. First present, non-empty value wins.
var (
	titleKeys  = []string{"name", "ComicName", "Title"}
	idKeys     = []string{"id", "ComicID", "comicid"}
	statusKeys = []string{"status", "Status"}

	issueNumberKeys = []string{"issue_number", "Issue_Number", "IssueNumber", "number"}
	issueIDKeys     = []string{"id", "IssueID"}
	issueFileKeys   = []string{"file_path", "Location"}
)

// lookup returns the first non-empty value among keys, string-converted.
func lookup(raw map[string]any, keys []string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		s := toString(v)
		if s != "" {
			return s
		}
	}
	return ""
}

// toString converts a raw JSON value to its string form. Numeric ids arrive
// as float64 from encoding/json; render them without a decimal point.
func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case int:
		return fmt.Sprintf("%d", t)
	case int64:
		return fmt.Sprintf("%d", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Normalize resolves a raw Mylar series record into a [models.SourceEntry].
//
// A missing title falls back to [UnknownTitle]; a missing id yields an empty
// ExternalID, which callers treat as a skip, never a failure. Status is
// lower-cased and an entry is monitored exactly when its status is "active".
func Normalize(raw map[string]any) models.SourceEntry {
	title := lookup(raw, titleKeys)
	if title == "" {
		title = UnknownTitle
	}

	sourceID := lookup(raw, idKeys)
	externalID := ""
	if sourceID != "" {
		externalID = CanonicalExternalID(sourceID)
	}

	status := strings.ToLower(lookup(raw, statusKeys))

	return models.SourceEntry{
		Title:      title,
		SourceID:   sourceID,
		ExternalID: externalID,
		Status:     status,
		Monitored:  status == "active",
	}
}

// CanonicalExternalID strips a non-numeric catalog prefix from a raw id.
//
// ComicVine ids are sometimes reported with a shard prefix ("4050-145299");
// Kapowarr wants only the trailing numeric segment. Ids without a separator
// pass through unchanged.
func CanonicalExternalID(raw string) string {
	if idx := strings.LastIndex(raw, externalIDSeparator); idx >= 0 {
		return raw[idx+1:]
	}
	return raw
}

// NormalizeIssue resolves a raw Mylar issue record into a [models.SourceIssue].
func NormalizeIssue(raw map[string]any) models.SourceIssue {
	return models.SourceIssue{
		ID:       lookup(raw, issueIDKeys),
		Number:   lookup(raw, issueNumberKeys),
		FilePath: lookup(raw, issueFileKeys),
	}
}

// MatchIssue finds the Mylar issue whose number equals the Kapowarr issue
// number, comparing both sides as strings. First match wins; input order
// breaks ties. The second return is false when no candidate matches, which is
// a normal, reportable outcome.
func MatchIssue(number string, issues []map[string]any) (models.SourceIssue, bool) {
	for _, raw := range issues {
		candidate := lookup(raw, issueNumberKeys)
		if candidate != "" && candidate == number {
			return NormalizeIssue(raw), true
		}
	}
	return models.SourceIssue{}, false
}
