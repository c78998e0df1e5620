package domain

// DefaultPreviewLength is the number of characters of document text kept for result previews.
const DefaultPreviewLength = 500

// DocumentMetadata describes a transcript held in the vector index.
type DocumentMetadata struct {
	// DocID is the zero-based insertion position. It is assigned by the index.
	DocID int `json:"doc_id"`

	Filename   string `json:"filename"`
	UploadDate string `json:"upload_date,omitempty"`
	FileType   string `json:"file_type,omitempty"`
	WordCount  int    `json:"word_count,omitempty"`

	// TextPreview holds the first characters of the document text.
	TextPreview string `json:"text_preview"`
}

// DocumentMatch is a ranked semantic search hit.
type DocumentMatch struct {
	// Rank is 1-based and ascends with distance.
	Rank int `json:"rank"`

	// Score is 1/(1+distance). It orders results but is not a calibrated probability.
	Score float64 `json:"score"`

	// Distance is the squared Euclidean distance to the query vector.
	Distance float64 `json:"distance"`

	Document DocumentMetadata `json:"document"`
}

// IndexStats summarises the vector index.
type IndexStats struct {
	TotalDocuments int    `json:"total_documents"`
	IndexSize      int    `json:"index_size"`
	Dimension      int    `json:"dimension"`
	Model          string `json:"model,omitempty"`
}

// Preview returns at most n characters (runes) of text.
func Preview(text string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
