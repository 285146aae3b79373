package report

import (
	"fmt"
	"strings"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/ai"
	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/store/model"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

// Subject carries everything the prompt builder needs about the intern
// and project under analysis.
type Subject struct {
	InternName         string
	ProjectName        string
	ProjectDescription string
	Entries            []model.LogbookEntry
}

const systemPrompt = "You are an experienced engineering supervisor who writes " +
	"clear, constructive performance reviews for software interns. You base every " +
	"observation on the logbook data provided and never invent activities."

// BuildPrompt renders the analysis prompt for the given report kind.
func BuildPrompt(reportType api.ReportType, subject Subject) (ai.Prompt, error) {
	var body string
	switch reportType {
	case api.ReportWeekly:
		body = weeklyTemplate
	case api.ReportMonthly:
		body = monthlyTemplate
	case api.ReportProjectSummary:
		body = projectSummaryTemplate
	case api.ReportInternAnalysis:
		body = internAnalysisTemplate
	default:
		return ai.Prompt{}, fmt.Errorf("unknown report type: %s", reportType)
	}

	user := strings.NewReplacer(
		"{intern_name}", subject.InternName,
		"{project_name}", subject.ProjectName,
		"{formatted_data}", formatEntries(subject),
	).Replace(body)

	return ai.Prompt{System: systemPrompt, User: user}, nil
}

// formatEntries renders logbook entries as plain structured text, oldest
// first, so the model sees the progression over the period.
func formatEntries(subject Subject) string {
	var b strings.Builder

	if subject.ProjectName != "" {
		b.WriteString("PROJECT: " + subject.ProjectName + "\n")
		if subject.ProjectDescription != "" {
			b.WriteString("DESCRIPTION: " + subject.ProjectDescription + "\n")
		}
		b.WriteString(strings.Repeat("=", 50) + "\n")
	}

	if len(subject.Entries) == 0 {
		b.WriteString("No logbook entries were recorded in this period.\n")
		return b.String()
	}

	for _, e := range subject.Entries {
		b.WriteString("\nDate: " + e.EntryDate.Format("2006-01-02") + "\n")
		b.WriteString(fmt.Sprintf("Hours Worked: %.1f\n", e.HoursWorked))
		b.WriteString("Work Done: " + e.Description + "\n")
		if e.Blockers != "" {
			b.WriteString("Blockers: " + e.Blockers + "\n")
		}
	}

	return b.String()
}

const weeklyTemplate = `You are analyzing an intern's weekly progress. Based on the logbook entries provided, generate a comprehensive weekly report.

Intern: {intern_name}

Data to analyze:
{formatted_data}

Please provide a detailed analysis with the following structure:

**WEEKLY PROGRESS SUMMARY**
Provide an overview of the intern's accomplishments and activities this week.

**STRENGTHS OBSERVED**
List specific strengths and positive aspects observed:
- [Strength 1]
- [Strength 2]
- [Strength 3]

**AREAS FOR IMPROVEMENT**
Identify specific areas that need attention:
- [Area 1]
- [Area 2]
- [Area 3]

**RECOMMENDATIONS**
Provide specific, actionable recommendations:
- [Recommendation 1]
- [Recommendation 2]
- [Recommendation 3]

Focus on being specific, constructive, and professional. Base your analysis on the actual data provided.`

const monthlyTemplate = `You are creating a comprehensive monthly performance review for an intern.

Intern: {intern_name}

Monthly data to analyze:
{formatted_data}

Generate a detailed monthly report with:

**MONTHLY PERFORMANCE OVERVIEW**
Summarize the intern's overall progress and development over the month.

**KEY ACHIEVEMENTS**
Highlight major accomplishments and milestones:
- [Achievement 1]
- [Achievement 2]
- [Achievement 3]

**CHALLENGES AND OBSTACLES**
Identify difficulties encountered and how they were handled:
- [Challenge 1]
- [Challenge 2]

**GROWTH RECOMMENDATIONS**
Provide strategic suggestions for next month:
- [Strategic recommendation 1]
- [Strategic recommendation 2]

Be thorough, analytical, and forward-looking in your assessment.`

const projectSummaryTemplate = `You are summarizing an intern's complete contribution to the project "{project_name}".

Intern: {intern_name}

Project data to analyze:
{formatted_data}

Create a comprehensive project summary report:

**PROJECT CONTRIBUTION SUMMARY**
Provide an executive summary of the intern's role and contributions to the project.

**TECHNICAL STRENGTHS**
Detail specific technical work completed well:
- [Technical contribution 1]
- [Technical contribution 2]

**CHALLENGES ENCOUNTERED**
Assess obstacles and how they were handled:
- [Challenge 1]
- [Challenge 2]

**RECOMMENDATIONS**
Identify next steps and growth opportunities:
- [Recommendation 1]
- [Recommendation 2]

Focus on concrete contributions and measurable outcomes.`

const internAnalysisTemplate = `You are performing an in-depth analysis of a single intern's working patterns across all of their recorded activity.

Intern: {intern_name}

Complete activity log:
{formatted_data}

Provide a detailed analysis with the following structure:

**OVERALL SUMMARY**
Characterize the intern's working style, consistency, and trajectory.

**STRENGTHS**
List the intern's demonstrated strengths:
- [Strength 1]
- [Strength 2]

**AREAS FOR IMPROVEMENT**
Identify recurring weaknesses or gaps:
- [Area 1]
- [Area 2]

**RECOMMENDATIONS**
Suggest concrete development actions:
- [Recommendation 1]
- [Recommendation 2]

Ground every point in the recorded entries.`
