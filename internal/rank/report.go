package rank

import (
	"time"
)

// TimestampLayout formats the report's processing timestamp in UTC.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Report is the persisted result of a ranking run.
type Report struct {
	Metadata           Metadata           `json:"metadata"`
	ExtractedSections  []ExtractedSection `json:"extracted_sections"`
	SubSectionAnalysis []SubSection       `json:"sub_section_analysis"`
}

type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

type ExtractedSection struct {
	Document       string `json:"document"`
	PageNumber     int    `json:"page_number"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
}

type SubSection struct {
	Document    string `json:"document"`
	PageNumber  int    `json:"page_number"`
	RefinedText string `json:"refined_text"`
}

// NewReport assembles a report. Both section lists follow rank order.
func NewReport(results []Result, docs []string, q Query, now time.Time) *Report {
	if docs == nil {
		docs = []string{}
	}
	rep := &Report{
		Metadata: Metadata{
			InputDocuments:      docs,
			Persona:             q.Persona,
			JobToBeDone:         q.Task,
			ProcessingTimestamp: now.UTC().Format(TimestampLayout),
		},
		ExtractedSections:  make([]ExtractedSection, 0, len(results)),
		SubSectionAnalysis: make([]SubSection, 0, len(results)),
	}
	for _, r := range results {
		rep.ExtractedSections = append(rep.ExtractedSections, ExtractedSection{
			Document:       r.Section.Document,
			PageNumber:     r.Section.Page,
			SectionTitle:   r.Section.Title,
			ImportanceRank: r.Rank,
		})
		rep.SubSectionAnalysis = append(rep.SubSectionAnalysis, SubSection{
			Document:    r.Section.Document,
			PageNumber:  r.Section.Page,
			RefinedText: r.RefinedText,
		})
	}
	return rep
}
