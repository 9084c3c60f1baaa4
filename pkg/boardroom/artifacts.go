package boardroom

// Artifact types the detector can propose.
const (
	ArtifactFinancialChart = "financial_chart"
	ArtifactMarketAnalysis = "market_analysis"
	ArtifactTimeline       = "timeline"
	ArtifactPDFAnalysis    = "pdf_analysis_chart"
	ArtifactGenericChart   = "generic_chart"
)

// ArtifactOpportunity is a detected chance to synthesize a chart.
type ArtifactOpportunity struct {
	Type        string
	Description string
}

// DetectArtifactOpportunity inspects the transcript (user and persona text
// joined into one string) for a visualization request. An explicit request
// (chart/visualize/graph/plot/"show ... trend") is a necessary condition for
// every type; only the first matching type in the fixed order is returned.
// hasPDF reports whether the strategy has a PDF document attached.
func (r *Rules) DetectArtifactOpportunity(transcript string, hasPDF bool) *ArtifactOpportunity {
	if !r.visualizationRe.MatchString(transcript) {
		return nil
	}

	if r.financeTermsRe.MatchString(transcript) && r.temporalRe.MatchString(transcript) {
		return &ArtifactOpportunity{
			Type:        ArtifactFinancialChart,
			Description: "Financial performance visualization requested by user",
		}
	}
	if r.marketRe.MatchString(transcript) {
		return &ArtifactOpportunity{
			Type:        ArtifactMarketAnalysis,
			Description: "Market analysis visualization requested by user",
		}
	}
	if r.timelineRe.MatchString(transcript) {
		return &ArtifactOpportunity{
			Type:        ArtifactTimeline,
			Description: "Project timeline visualization requested by user",
		}
	}
	if hasPDF && r.pdfRefRe.MatchString(transcript) {
		return &ArtifactOpportunity{
			Type:        ArtifactPDFAnalysis,
			Description: "Chart based on attached document as requested",
		}
	}
	return nil
}
