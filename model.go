package labdoc

import "time"

// ModelConfigVersion is the version written to exported model files.
const ModelConfigVersion = "1"

// ModelConfig is the portable form of a rule store: its schemas plus the
// training history at the time of export.
type ModelConfig struct {
	Version         string            `json:"version"`
	ExportedAt      time.Time         `json:"exportedAt"`
	Schemas         []*DocumentSchema `json:"schemas"`
	TrainingHistory []TrainingEvent   `json:"trainingHistory"`
}

// FieldExamples describes how one field is currently extracted: its active
// pattern and the examples it was trained on.
type FieldExamples struct {
	Pattern  string    `json:"pattern"`
	Examples []Example `json:"examples"`
}

// ModelData summarizes the state of a rule store for inspection.
type ModelData struct {
	Schemas            []*DocumentSchema                    `json:"schemas"`
	Revisions          map[DocType]string                   `json:"revisions"`
	TrainingHistory    map[DocType][]TrainingEvent          `json:"trainingHistory"`
	FieldCounts        map[DocType]int                      `json:"fieldCounts"`
	ExtractionExamples map[DocType]map[string]FieldExamples `json:"extractionExamples"`
}

// NewModelData builds a summary from a rule store snapshot.
func NewModelData(store RuleStore) *ModelData {
	data := &ModelData{
		Schemas:            store.Schemas(),
		Revisions:          make(map[DocType]string),
		TrainingHistory:    make(map[DocType][]TrainingEvent),
		FieldCounts:        make(map[DocType]int),
		ExtractionExamples: make(map[DocType]map[string]FieldExamples),
	}

	for _, s := range data.Schemas {
		data.Revisions[s.DocType] = store.Revision(s.DocType)
		data.FieldCounts[s.DocType] = len(s.Fields)
		examples := make(map[string]FieldExamples, len(s.Fields))
		for _, f := range s.Fields {
			fe := FieldExamples{Examples: f.Examples}
			if fe.Examples == nil {
				fe.Examples = []Example{}
			}
			if len(f.Patterns) > 0 {
				fe.Pattern = f.Patterns[0].Expr
			}
			examples[f.Name] = fe
		}
		data.ExtractionExamples[s.DocType] = examples
	}

	for _, ev := range store.History("") {
		data.TrainingHistory[ev.DocType] = append(data.TrainingHistory[ev.DocType], ev)
	}

	return data
}
