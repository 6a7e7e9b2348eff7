package labdoc

// TestRow is one row of a test / specification / result table.
type TestRow struct {
	Test          string `json:"test"`
	Specification string `json:"specification"`
	Result        string `json:"result"`
}

// ExtractionRecord is the structured output of one extraction.
type ExtractionRecord struct {
	DocType     DocType           `json:"docType"`
	Fields      map[string]string `json:"fields"`
	TestResults []TestRow         `json:"testResults"`
	FullText    string            `json:"fullText"`

	// Warnings lists fields that were not found and table lines that
	// could not be parsed. They are informational, never errors.
	Warnings []string `json:"warnings"`
}

// Extractor turns raw document text into an extraction record.
type Extractor interface {
	// Extract classifies the text and extracts fields and test results.
	// Never fails; unparseable input yields a partial or empty record.
	Extract(raw string) *ExtractionRecord
}
