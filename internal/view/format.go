// Package view derives presentation-only values from fetched records:
// formatted sizes and dates, table rows, search filters and report aggregates.
package view

import (
	"fmt"
	"strings"
	"time"
)

const (
	kb = 1024
	mb = kb * 1024
	gb = mb * 1024
)

// FormatFileSize renders a byte count as B, KB, MB or GB with two decimals.
func FormatFileSize(size int64) string {
	switch {
	case size < kb:
		return fmt.Sprintf("%d B", size)
	case size < mb:
		return fmt.Sprintf("%.2f KB", float64(size)/kb)
	case size < gb:
		return fmt.Sprintf("%.2f MB", float64(size)/mb)
	default:
		return fmt.Sprintf("%.2f GB", float64(size)/gb)
	}
}

// FileKind groups a mime type into the icon shown next to a document.
func FileKind(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "image"):
		return "image"
	case strings.Contains(mimeType, "pdf"):
		return "pdf"
	default:
		return "file"
	}
}

// MimeSubtype returns the part after the slash, or "unknown".
func MimeSubtype(mimeType string) string {
	_, sub, ok := strings.Cut(mimeType, "/")
	if !ok || sub == "" {
		return "unknown"
	}
	return sub
}

const DateLayout = "01/02/2006 15:04:05"

var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// FormatDate renders an ISO-like timestamp as MM/dd/yyyy HH:mm:ss in loc.
// Timestamps without a zone are read as local to loc. Unparseable input is returned unchanged.
func FormatDate(raw string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range inputLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return t.In(loc).Format(DateLayout)
		}
	}
	return raw
}
