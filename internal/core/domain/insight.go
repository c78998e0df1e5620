package domain

import (
	"sort"
	"strings"
	"time"
)

// Sentiment is the overall tone of a meeting.
type Sentiment string

// Recognised sentiments.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// IsValid returns true if the sentiment is recognised.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

// Score maps the sentiment onto the numeric scale used by timelines.
// Unrecognised values score as neutral.
func (s Sentiment) Score() int {
	switch s {
	case SentimentPositive:
		return 1
	case SentimentNegative:
		return -1
	default:
		return 0
	}
}

// String returns the string representation.
func (s Sentiment) String() string {
	return string(s)
}

// ActionStatus is the lifecycle state of an action item.
type ActionStatus string

// Action item states.
const (
	ActionOpen   ActionStatus = "open"
	ActionClosed ActionStatus = "closed"
)

// Defaults applied to action items the extractor left incomplete.
const (
	UnassignedOwner = "Unassigned"
	NoDeadline      = "No deadline"
)

// ActionItem is a task extracted from a transcript.
type ActionItem struct {
	Task     string       `json:"task" validate:"required"`
	Owner    string       `json:"owner,omitempty"`
	Deadline string       `json:"deadline,omitempty"`
	Status   ActionStatus `json:"status" validate:"omitempty,oneof=open closed"`
}

// InsightRecord is the structured extraction result for one transcript.
// Unknown JSON fields are ignored on decode.
type InsightRecord struct {
	// Filename identifies the source transcript and is unique per record.
	Filename string `json:"filename" validate:"required"`

	// Date is an ISO-8601 timestamp. It may be empty or malformed.
	Date string `json:"date"`

	FileType       string `json:"file_type,omitempty"`
	CharacterCount int    `json:"character_count,omitempty"`
	WordCount      int    `json:"word_count,omitempty"`

	Summary       string       `json:"summary"`
	Topics        []string     `json:"topics"`
	Risks         []string     `json:"risks"`
	Opportunities []string     `json:"opportunities"`
	ActionItems   []ActionItem `json:"action_items" validate:"dive"`
	Sentiment     Sentiment    `json:"sentiment" validate:"omitempty,oneof=positive neutral negative"`

	// Error is set by the extractor when only a partial extraction succeeded.
	Error string `json:"error,omitempty"`
}

// Normalize fills absent analytic fields with their documented defaults
// so aggregation never has to special-case missing data.
func (r *InsightRecord) Normalize() {
	if r.Topics == nil {
		r.Topics = []string{}
	}
	if r.Risks == nil {
		r.Risks = []string{}
	}
	if r.Opportunities == nil {
		r.Opportunities = []string{}
	}
	if r.ActionItems == nil {
		r.ActionItems = []ActionItem{}
	}
	if !r.Sentiment.IsValid() {
		r.Sentiment = SentimentNeutral
	}
	for i := range r.ActionItems {
		item := &r.ActionItems[i]
		if item.Owner == "" {
			item.Owner = UnassignedOwner
		}
		if item.Deadline == "" {
			item.Deadline = NoDeadline
		}
		if item.Status == "" {
			item.Status = ActionOpen
		}
	}
}

// Clone returns a copy that shares no slices with r.
func (r InsightRecord) Clone() InsightRecord {
	r.Topics = cloneStrings(r.Topics)
	r.Risks = cloneStrings(r.Risks)
	r.Opportunities = cloneStrings(r.Opportunities)
	if r.ActionItems != nil {
		r.ActionItems = append([]ActionItem(nil), r.ActionItems...)
	}
	return r
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// dateLayouts are tried in order by ParseDate. Timestamps without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 timestamp as written by the extraction step.
// A trailing "Z" is accepted as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Time returns the record's parsed date and whether it was parseable.
func (r *InsightRecord) Time() (time.Time, bool) {
	return ParseDate(r.Date)
}

// SortNewestFirst orders records by their date string, newest first.
// Records with equal or missing dates keep their relative order.
func SortNewestFirst(records []InsightRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
}
