package domain

import "time"

// LabelField selects which free-text label sequence of a record to aggregate.
type LabelField string

// Aggregatable label fields.
const (
	FieldTopics        LabelField = "topics"
	FieldRisks         LabelField = "risks"
	FieldOpportunities LabelField = "opportunities"
)

// Labels returns the record's labels for the field.
func (f LabelField) Labels(r *InsightRecord) []string {
	switch f {
	case FieldTopics:
		return r.Topics
	case FieldRisks:
		return r.Risks
	case FieldOpportunities:
		return r.Opportunities
	default:
		return nil
	}
}

// LabelCount is a label with its number of occurrences.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Occurrence records one appearance of a label in a transcript.
type Occurrence struct {
	Label    string `json:"label"`
	Filename string `json:"filename"`
	Date     string `json:"date"`
}

// Recurrence is a label whose count met a threshold, with every place it appeared.
type Recurrence struct {
	Label       string       `json:"label"`
	Count       int          `json:"count"`
	Occurrences []Occurrence `json:"occurrences"`
}

// LabelAnalysis is the frequency table for one label field.
type LabelAnalysis struct {
	Field LabelField `json:"field"`

	// Unique is the number of distinct labels.
	Unique int `json:"total_unique"`

	// Mentions is the total number of occurrences.
	Mentions int `json:"total_mentions"`

	// Top is ranked descending by count; ties keep first-encountered order.
	Top []LabelCount `json:"top"`

	// Frequency holds the count for every distinct label.
	Frequency map[string]int `json:"frequency"`
}

// RiskAnalysis extends the risk frequency table with recurring risks.
type RiskAnalysis struct {
	LabelAnalysis

	// Repeated lists every risk at or above the repeat threshold.
	Repeated []Recurrence `json:"repeated_risks"`
}

// TrackedActionItem is an action item tagged with its source transcript.
type TrackedActionItem struct {
	ActionItem
	SourceFile string `json:"source_file"`
	SourceDate string `json:"source_date"`
}

// ActionItemReport is the lifecycle aggregation over all action items.
type ActionItemReport struct {
	Total  int `json:"total_action_items"`
	Open   int `json:"open_items"`
	Closed int `json:"closed_items"`

	// CompletionRate is closed/total*100, or 0 when there are no items.
	CompletionRate float64 `json:"completion_rate"`

	Items     []TrackedActionItem `json:"all_items"`
	OpenItems []TrackedActionItem `json:"open_items_list"`

	// ByOwner counts items per owner, ranked descending with first-seen tie order.
	ByOwner []LabelCount `json:"by_owner"`
}

// SentimentPoint is one entry of the sentiment time series.
type SentimentPoint struct {
	Date      time.Time `json:"date"`
	Sentiment Sentiment `json:"sentiment"`
	Score     int       `json:"sentiment_score"`
	Filename  string    `json:"filename"`
}

// SentimentDistribution counts records per sentiment.
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Total returns the number of records counted.
func (d SentimentDistribution) Total() int {
	return d.Positive + d.Neutral + d.Negative
}

// Dashboard bundles every aggregate the dashboard renders.
type Dashboard struct {
	TotalTranscripts  int               `json:"total_transcripts"`
	Topics            LabelAnalysis     `json:"topics"`
	Risks             RiskAnalysis      `json:"risks"`
	Opportunities     LabelAnalysis     `json:"opportunities"`
	SentimentTimeline []SentimentPoint  `json:"sentiment_timeline"`
	ActionItems       ActionItemReport  `json:"action_items"`
	EmergingThemes    []Recurrence      `json:"emerging_themes"`
	Summary           *ExecutiveSummary `json:"executive_summary,omitempty"`
}

// ExecutiveSummary is the composed report. Empty sections are nil and not rendered.
type ExecutiveSummary struct {
	Period           string                `json:"period"`
	MeetingCount     int                   `json:"meeting_count"`
	Sentiment        SentimentDistribution `json:"sentiment"`
	OpenActionItems  int                   `json:"open_action_items"`
	TotalActionItems int                   `json:"total_action_items"`
	CompletionRate   float64               `json:"completion_rate"`
	TopTopics        []LabelCount          `json:"top_topics,omitempty"`
	ThemeThreshold   int                   `json:"theme_threshold"`
	EmergingThemes   []LabelCount          `json:"emerging_themes,omitempty"`
	RepeatedRisks    []LabelCount          `json:"repeated_risks,omitempty"`
	TopOpportunities []string              `json:"top_opportunities,omitempty"`
	TopOwners        []LabelCount          `json:"top_owners,omitempty"`
	HasActionItems   bool                  `json:"has_action_items"`
}

// TrendSettings holds thresholds and list sizes for trend analysis.
type TrendSettings struct {
	// EmergingThreshold is the minimum count for a dashboard emerging theme.
	EmergingThreshold int

	// RepeatThreshold is the minimum count for repeated risks and summary themes.
	RepeatThreshold int

	TopTopics        int
	TopRisks         int
	TopOpportunities int
}

// DefaultTrendSettings returns the standard thresholds.
func DefaultTrendSettings() TrendSettings {
	return TrendSettings{
		EmergingThreshold: 3,
		RepeatThreshold:   2,
		TopTopics:         20,
		TopRisks:          10,
		TopOpportunities:  10,
	}
}
