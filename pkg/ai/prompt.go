package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const systemPrompt = "You are an expert medical AI assistant specializing in oncology. " +
	"You provide thorough, evidence-based analysis of clinical discussions."

// analysisSchema is the JSON schema the model must follow
var analysisSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"summary": map[string]interface{}{
			"type":        "string",
			"description": "2-3 paragraphs summarizing the main points discussed in the recording",
		},
		"conclusion": map[string]interface{}{
			"type":        "string",
			"description": "1-2 paragraphs with the key takeaways of the clinical discussion",
		},
		"criticism": map[string]interface{}{
			"type":        "string",
			"description": "2-3 paragraphs critically comparing the discussion with the scientific source",
		},
	},
	"required":             []string{"summary", "conclusion", "criticism"},
	"additionalProperties": false,
}

// buildUserPrompt renders the analysis instructions for one discussion
func buildUserPrompt(req AnalysisRequest) string {
	var b strings.Builder
	b.WriteString("You are analyzing a clinical discussion recording for oncology professionals. ")
	b.WriteString("The recording is a mixed Arabic and English conversation.\n\n")
	if req.Topic != "" {
		fmt.Fprintf(&b, "DISCUSSION TOPIC: %s\n\n", req.Topic)
	}
	fmt.Fprintf(&b, "TRANSCRIPT:\n%s\n\n", req.Transcript)
	fmt.Fprintf(&b, "SCIENTIFIC SOURCE (from PDF):\n%s\n\n", req.Document)
	b.WriteString(`Please provide a comprehensive analysis in English with the following sections:

1. SUMMARY (2-3 paragraphs)
Summarize the main points discussed in the recording.

2. CONCLUSION (1-2 paragraphs)
What are the key takeaways and conclusions from this clinical discussion?

3. CRITICAL ANALYSIS & COMPARISON (2-3 paragraphs)
Critically analyze the content of the recording by comparing it with the scientific source provided. Identify:
- Areas of alignment with the scientific source
- Contradictions or discrepancies with evidence-based practices
- Missing critical information that should have been discussed
- Strengths of the discussion
- Areas for improvement

Respond with a JSON object with exactly the keys "summary", "conclusion" and "criticism", ` +
		`each a non-empty string written for medical professionals.`)
	return b.String()
}

var (
	summarySection    = regexp.MustCompile(`(?is)1\.\s*SUMMARY[^\n]*\n+(.*?)\n+\s*2\.`)
	conclusionSection = regexp.MustCompile(`(?is)2\.\s*CONCLUSION[^\n]*\n+(.*?)\n+\s*3\.`)
	criticismSection  = regexp.MustCompile(`(?is)3\.\s*CRITICAL ANALYSIS[^\n]*\n+(.*)`)
)

// ParseAnalysis decodes model output into an Analysis.
// JSON output is preferred; numbered-section prose is accepted as a fallback.
// Every section must be non-empty.
func ParseAnalysis(content string) (*Analysis, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyResponse
	}

	var a Analysis
	if err := json.Unmarshal([]byte(extractJSON(content)), &a); err != nil {
		a = parseSections(content)
	}

	a.Summary = strings.TrimSpace(a.Summary)
	a.Conclusion = strings.TrimSpace(a.Conclusion)
	a.Criticism = strings.TrimSpace(a.Criticism)

	switch {
	case a.Summary == "":
		return nil, fmt.Errorf("%w: missing summary", ErrMalformedOutput)
	case a.Conclusion == "":
		return nil, fmt.Errorf("%w: missing conclusion", ErrMalformedOutput)
	case a.Criticism == "":
		return nil, fmt.Errorf("%w: missing criticism", ErrMalformedOutput)
	}
	return &a, nil
}

func parseSections(content string) Analysis {
	var a Analysis
	if m := summarySection.FindStringSubmatch(content); m != nil {
		a.Summary = m[1]
	}
	if m := conclusionSection.FindStringSubmatch(content); m != nil {
		a.Conclusion = m[1]
	}
	if m := criticismSection.FindStringSubmatch(content); m != nil {
		a.Criticism = m[1]
	}
	return a
}

// extractJSON strips markdown code fences and surrounding prose around a JSON object
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}
