package view

import (
	"math/rand/v2"
	"sort"

	"lawdesk/internal/model"
)

// DocumentReport aggregates the document list for the report screen.
type DocumentReport struct {
	TotalDocuments int            `json:"total_documents"`
	TotalBytes     int64          `json:"total_bytes"`
	TotalSize      string         `json:"total_size"`
	TypeCounts     map[string]int `json:"type_counts"`
	Types          []string       `json:"types"`
	Synthetic      SyntheticStats `json:"synthetic"`
}

// SyntheticStats holds simulated download numbers. They are random and carry no meaning.
type SyntheticStats struct {
	Synthetic       bool           `json:"synthetic"`
	TotalDownloads  int            `json:"total_downloads"`
	DownloadsByType map[string]int `json:"downloads_by_type"`
}

// TypeCounts counts documents per mime subtype.
func TypeCounts(docs []model.Document) map[string]int {
	counts := make(map[string]int)
	for _, d := range docs {
		counts[MimeSubtype(d.MimeType)]++
	}
	return counts
}

// BuildDocumentReport computes totals and type counts. rng drives the synthetic
// download numbers; nil uses a random source.
func BuildDocumentReport(docs []model.Document, rng *rand.Rand) DocumentReport {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	counts := TypeCounts(docs)
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)

	var total int64
	syn := SyntheticStats{Synthetic: true, DownloadsByType: make(map[string]int, len(types))}
	for _, d := range docs {
		total += d.FileSize
		syn.TotalDownloads += rng.IntN(100)
	}
	for _, t := range types {
		syn.DownloadsByType[t] = rng.IntN(100)
	}

	return DocumentReport{
		TotalDocuments: len(docs),
		TotalBytes:     total,
		TotalSize:      FormatFileSize(total),
		TypeCounts:     counts,
		Types:          types,
		Synthetic:      syn,
	}
}
