package boardroom

import (
	"fmt"

	"github.com/menagerie-labs/boardroom/pkg/models"
)

// ComposeArtifactPrompt builds the structured-generation prompt for one
// artifact type. transcript is the rendered conversation; description is the
// free-form request used for generic charts.
func ComposeArtifactPrompt(artifactType string, strategy *models.BusinessStrategy, transcript, description string) string {
	if strategy == nil {
		strategy = &models.BusinessStrategy{}
	}
	switch artifactType {
	case ArtifactFinancialChart:
		return composeFinancialChartPrompt(strategy, transcript)
	case ArtifactMarketAnalysis:
		return composeMarketAnalysisPrompt(strategy, transcript)
	case ArtifactTimeline:
		return composeTimelinePrompt(strategy, transcript)
	case ArtifactPDFAnalysis:
		return composePDFAnalysisPrompt(strategy, transcript)
	default:
		return composeGenericChartPrompt(strategy, transcript, description)
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func composeFinancialChartPrompt(s *models.BusinessStrategy, transcript string) string {
	return fmt.Sprintf(`Based on the business strategy discussion below, generate a financial performance chart.

BUSINESS STRATEGY:
Project: %s
Summary: %s
Estimated Cost: %s

CONVERSATION DETAILS:
%s

INSTRUCTIONS:
Create a financial chart visualization with realistic data based on the discussion. Generate appropriate financial metrics and projections.

Respond in JSON format with the following structure:
{
  "type": "financial_chart",
  "chartType": "line" | "bar" | "area",
  "title": "Chart title",
  "description": "Brief description of what the chart shows",
  "data": [
    {
      "name": "Month/Period",
      "revenue": 0,
      "expenses": 0,
      "profit": 0
    }
  ],
  "config": {
    "xAxisKey": "name",
    "yAxisKeys": ["revenue", "expenses", "profit"],
    "colors": ["#10B981", "#EF4444", "#3B82F6"]
  }
}

Generate realistic financial data that makes sense for the business discussed. Include at least 6 data points covering a reasonable time period.`,
		orDefault(s.ProjectName, "Untitled Project"),
		orDefault(s.OneSentenceSummary, "No summary provided"),
		orDefault(s.EstimatedCost, "Not specified"),
		transcript)
}

func composeMarketAnalysisPrompt(s *models.BusinessStrategy, transcript string) string {
	return fmt.Sprintf(`Based on the business strategy discussion below, generate a market analysis chart.

BUSINESS STRATEGY:
Project: %s
Target Customer: %s
Key Problem: %s

CONVERSATION DETAILS:
%s

INSTRUCTIONS:
Create a market analysis visualization with realistic market data based on the discussion.

Respond in JSON format with the following structure:
{
  "type": "market_analysis",
  "chartType": "pie" | "bar" | "donut",
  "title": "Chart title",
  "description": "Brief description of the market analysis",
  "data": [
    {
      "name": "Market Segment",
      "value": 0,
      "percentage": 0
    }
  ],
  "config": {
    "valueKey": "value",
    "nameKey": "name",
    "colors": ["#8B5CF6", "#06B6D4", "#84CC16", "#F59E0B", "#EF4444"]
  }
}

Generate realistic market segmentation or competitive analysis data relevant to the business discussed.`,
		orDefault(s.ProjectName, "Untitled Project"),
		orDefault(s.TargetCustomer, "Not specified"),
		orDefault(s.KeyProblem, "Not specified"),
		transcript)
}

func composeTimelinePrompt(s *models.BusinessStrategy, transcript string) string {
	return fmt.Sprintf(`Based on the business strategy discussion below, generate a project timeline/roadmap.

BUSINESS STRATEGY:
Project: %s
Description: %s

CONVERSATION DETAILS:
%s

INSTRUCTIONS:
Create a timeline visualization showing key milestones and phases for the project.

Respond in JSON format with the following structure:
{
  "type": "timeline",
  "chartType": "timeline",
  "title": "Chart title",
  "description": "Brief description of the timeline",
  "data": [
    {
      "name": "Phase/Milestone Name",
      "start": "2024-01-01",
      "end": "2024-03-01",
      "status": "planned" | "in-progress" | "completed",
      "description": "Phase description"
    }
  ],
  "config": {
    "timeFormat": "YYYY-MM-DD",
    "statusColors": {
      "planned": "#94A3B8",
      "in-progress": "#3B82F6",
      "completed": "#10B981"
    }
  }
}

Generate realistic timeline with appropriate phases and milestones for the project discussed.`,
		orDefault(s.ProjectName, "Untitled Project"),
		orDefault(s.DetailedDescription, "No detailed description provided"),
		transcript)
}

func composePDFAnalysisPrompt(s *models.BusinessStrategy, transcript string) string {
	docName := "Financial document"
	if s.SupplementaryFile != nil && s.SupplementaryFile.Name != "" {
		docName = s.SupplementaryFile.Name
	}
	return fmt.Sprintf(`Based on the attached PDF document and business strategy discussion below, generate a relevant chart visualization.

BUSINESS STRATEGY:
Project: %s
PDF Document: %s

CONVERSATION DETAILS:
%s

INSTRUCTIONS:
Analyze the PDF document and create a chart that visualizes key data from the document relevant to the business discussion.

Respond in JSON format with the following structure:
{
  "type": "pdf_analysis_chart",
  "chartType": "line" | "bar" | "pie" | "area",
  "title": "Chart title based on PDF data",
  "description": "Description of what the chart shows from the PDF",
  "data": [
    {
      "name": "Category/Period",
      "value": 0
    }
  ],
  "config": {
    "xAxisKey": "name",
    "yAxisKey": "value",
    "colors": ["#8B5CF6", "#06B6D4", "#10B981"]
  }
}

Extract real data from the PDF document and create meaningful visualizations. Focus on financial performance, trends, or key metrics mentioned in the conversation.`,
		orDefault(s.ProjectName, "Untitled Project"), docName, transcript)
}

func composeGenericChartPrompt(s *models.BusinessStrategy, transcript, description string) string {
	return fmt.Sprintf(`Based on the business strategy discussion below, generate a chart visualization for: %s

BUSINESS STRATEGY:
Project: %s

CONVERSATION DETAILS:
%s

INSTRUCTIONS:
Create an appropriate chart visualization based on the conversation and description provided.

Respond in JSON format with the following structure:
{
  "type": "generic_chart",
  "chartType": "line" | "bar" | "pie" | "area",
  "title": "Chart title",
  "description": "Brief description of the chart",
  "data": [
    {
      "name": "Category/Period",
      "value": 0
    }
  ],
  "config": {
    "xAxisKey": "name",
    "yAxisKey": "value",
    "colors": ["#8B5CF6", "#06B6D4", "#10B981", "#F59E0B"]
  }
}

Generate realistic and relevant data for the visualization requested.`,
		description, orDefault(s.ProjectName, "Untitled Project"), transcript)
}
