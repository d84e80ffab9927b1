package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/profilepilot/internal/domain/analysis"
)

const careerTemplate = "Act as an expert career coach and tech hiring manager. A candidate is applying for a '%s' position. " +
	"Their self-reported skills are: %s. Based on this information and assuming you have reviewed their GitHub profile " +
	"(which shows moderate activity but could be improved), provide a comprehensive analysis. " +
	"Generate the analysis strictly following the provided JSON schema."

// BuildPrompt is deterministic: the same role, skills and projects always give the same text.
// Skills keep their submitted order and are joined with ", ".
func BuildPrompt(role string, skills []string, projects ...analysis.Project) string {
	p := fmt.Sprintf(careerTemplate, role, strings.Join(skills, ", "))
	if len(projects) == 0 {
		return p
	}
	var b strings.Builder
	b.WriteString(p)
	b.WriteString("\n\nFeatured projects:")
	for i, pr := range projects {
		fmt.Fprintf(&b, "\n%d. %s (%s): %s", i+1, pr.Title, pr.URL, pr.Description)
	}
	return b.String()
}
