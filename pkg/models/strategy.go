package models

import "strings"

// SupplementaryFile types accepted by upload.
const (
	FileTypePDF      = "pdf"
	FileTypeMarkdown = "markdown"
	FileTypeText     = "text"
)

// BusinessStrategy is the free-form strategy the user presents to the board.
// Every field is optional; prompt composition omits absent fields.
type BusinessStrategy struct {
	ProjectName         string             `json:"projectName,omitempty"`
	OneSentenceSummary  string             `json:"oneSentenceSummary,omitempty"`
	TargetCustomer      string             `json:"targetCustomer,omitempty"`
	KeyProblem          string             `json:"keyProblem,omitempty"`
	EstimatedCost       string             `json:"estimatedCost,omitempty"`
	DetailedDescription string             `json:"detailedDescription,omitempty"`
	SupplementaryFile   *SupplementaryFile `json:"supplementaryFile,omitempty"`
}

// SupplementaryFile is an uploaded document attached to the strategy.
// TextExcerpt is filled by the extraction collaborator for text-bearing
// formats; for PDFs it may be empty.
type SupplementaryFile struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Content     string `json:"content,omitempty"`
	TextExcerpt string `json:"textExcerpt,omitempty"`
}

// HasMinimalInfo reports whether the user gave at least a project name, a
// one-line summary or a detailed description. It drives the wording of the
// opening system message.
func (s *BusinessStrategy) HasMinimalInfo() bool {
	if s == nil {
		return false
	}
	return strings.TrimSpace(s.ProjectName) != "" ||
		strings.TrimSpace(s.OneSentenceSummary) != "" ||
		strings.TrimSpace(s.DetailedDescription) != ""
}

// HasPDF reports whether a PDF document is attached.
func (s *BusinessStrategy) HasPDF() bool {
	return s != nil && s.SupplementaryFile != nil && s.SupplementaryFile.Type == FileTypePDF
}
