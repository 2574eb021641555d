package prompt

import (
	_ "embed"
	"fmt"
	"strings"
)

// Kind selects which instruction template is composed.
type Kind string

const (
	KindResume Kind = "resume"
	KindAnswer Kind = "answer"
)

// ContentPolicy controls how much the generator may add beyond the raw experience.
type ContentPolicy string

const (
	PolicyStrict    ContentPolicy = "strict"
	PolicyEmbellish ContentPolicy = "embellish"
)

// Output markers the resume template asks the model to begin and end with.
const (
	StartToken = `\documentclass`
	EndToken   = `\end{document}`
)

var (
	//go:embed templates/resume.tmpl
	resumeTemplate string
	//go:embed templates/answer.tmpl
	answerTemplate string
	//go:embed templates/policy_strict.txt
	policyStrict string
	//go:embed templates/policy_embellish.txt
	policyEmbellish string
	//go:embed templates/example.tex
	exampleResume string
	//go:embed templates/guidelines.txt
	defaultGuidelines string
	//go:embed samples/experience.txt
	sampleExperience string
	//go:embed samples/job_description.txt
	sampleJobDescription string
)

// Input carries the user text interpolated into a template.
type Input struct {
	RawExperience  string
	JobDescription string
	Question       string
	Guidelines     string
	Policy         ContentPolicy
}

// ParsePolicy maps a configuration value to a ContentPolicy. Empty means strict.
func ParsePolicy(raw string) (ContentPolicy, error) {
	switch ContentPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyEmbellish:
		return PolicyEmbellish, nil
	default:
		return "", fmt.Errorf("unknown content policy %q", raw)
	}
}

// Compose builds the request text for kind. User text is inserted as-is; a
// placeholder typed by the user is never expanded.
func Compose(kind Kind, in Input) (string, error) {
	switch kind {
	case KindResume:
		policy, err := policyText(in.Policy)
		if err != nil {
			return "", err
		}
		replacer := strings.NewReplacer(
			"{{CONTENT_POLICY}}", policy,
			"{{GUIDELINES}}", guidelinesBlock(in.Guidelines),
			"{{JOB_DESCRIPTION}}", in.JobDescription,
			"{{RAW_EXPERIENCE}}", in.RawExperience,
			"{{EXAMPLE}}", strings.TrimRight(exampleResume, "\n"),
			"{{START_TOKEN}}", StartToken,
			"{{END_TOKEN}}", EndToken,
		)
		return replacer.Replace(resumeTemplate), nil
	case KindAnswer:
		replacer := strings.NewReplacer(
			"{{RAW_EXPERIENCE}}", in.RawExperience,
			"{{JOB_DESCRIPTION}}", in.JobDescription,
			"{{QUESTION}}", in.Question,
		)
		return replacer.Replace(answerTemplate), nil
	default:
		return "", fmt.Errorf("unknown prompt kind %q", kind)
	}
}

func policyText(p ContentPolicy) (string, error) {
	switch p {
	case "", PolicyStrict:
		return strings.TrimRight(policyStrict, "\n"), nil
	case PolicyEmbellish:
		return strings.TrimRight(policyEmbellish, "\n"), nil
	default:
		return "", fmt.Errorf("unknown content policy %q", p)
	}
}

func guidelinesBlock(g string) string {
	g = strings.TrimSpace(g)
	if g == "" {
		return ""
	}
	return "\n10. **RECRUITER STYLE GUIDELINES.** Apply the guidelines below when choosing and phrasing content. They never override rules 1-9.\n---\n" + g + "\n---\n"
}

// DefaultGuidelines returns the built-in recruiter style guidelines.
func DefaultGuidelines() string { return strings.TrimSpace(defaultGuidelines) }

// SampleExperience returns the raw experience new workspaces start with.
func SampleExperience() string { return strings.TrimSpace(sampleExperience) }

// SampleJobDescription returns the job description new workspaces start with.
func SampleJobDescription() string { return strings.TrimSpace(sampleJobDescription) }

// ExampleResume returns the worked LaTeX example embedded in the resume prompt.
func ExampleResume() string { return exampleResume }
