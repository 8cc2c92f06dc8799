package content

import (
	"fmt"
	"strings"
)

// Extraction quality tiers. Poor extractions are rejected upstream
// rather than fed into concept extraction.
const (
	QualityGood = "good"
	QualityFair = "fair"
	QualityPoor = "poor"
)

// Page is one page of extracted text.
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Extraction is the result of pulling text out of an uploaded material.
type Extraction struct {
	Text                 string `json:"text"`
	Pages                []Page `json:"pages"`
	TotalPages           int    `json:"total_pages"`
	Quality              string `json:"quality"`
	Method               string `json:"method"`
	EstimatedTimeMinutes int    `json:"estimated_time_minutes"`
}

// Extractor turns raw uploaded bytes into an Extraction.
type Extractor interface {
	Extract(data []byte, filename string) (*Extraction, error)
}

// Minimum characters per page before a page counts toward quality.
const minTextLength = 50

// Estimated processing minutes charged per page.
const minutesPerPage = 2

// TextExtractor handles plain-text uploads. Pages are separated by form
// feeds; a document without any counts as a single page.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Extract(data []byte, filename string) (*Extraction, error) {
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no text content in %s", filename)
	}

	raw := strings.Split(text, "\f")
	pages := make([]Page, 0, len(raw))
	usable := 0
	for i, p := range raw {
		trimmed := strings.TrimSpace(p)
		if trimmed == "" {
			continue
		}
		pages = append(pages, Page{Number: i + 1, Text: trimmed})
		if len(trimmed) >= minTextLength {
			usable++
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no text content in %s", filename)
	}

	return &Extraction{
		Text:                 text,
		Pages:                pages,
		TotalPages:           len(pages),
		Quality:              quality(usable, len(pages)),
		Method:               "plain_text",
		EstimatedTimeMinutes: len(pages) * minutesPerPage,
	}, nil
}

func quality(usable, total int) string {
	ratio := float64(usable) / float64(total)
	switch {
	case ratio >= 0.8:
		return QualityGood
	case ratio >= 0.4:
		return QualityFair
	default:
		return QualityPoor
	}
}
