package service

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderPattern matches a {{variable}} placeholder
var placeholderPattern = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// KnownVariables is the catalog of variables templates may reference.
// The renderer tolerates anything else by stripping it, but validation
// tooling warns about references outside this set.
var KnownVariables = []string{
	"first_name",
	"last_name",
	"full_name",
	"email",
	"phone",
	"status",
	"source",
	"company_name",
	"company_phone",
}

// TemplateService renders message templates with variable substitution
type TemplateService struct{}

// NewTemplateService creates a new template service
func NewTemplateService() *TemplateService {
	return &TemplateService{}
}

// Render substitutes {{name}} placeholders with values from vars.
// Placeholders with no matching key are stripped rather than left in the
// output: a missing variable must never block message delivery, so this
// function cannot fail.
func (s *TemplateService) Render(template string, vars map[string]string) string {
	rendered := template

	for key, value := range vars {
		rendered = strings.ReplaceAll(rendered, "{{"+key+"}}", value)
	}

	// Anything still matching placeholder syntax is an unknown variable
	rendered = placeholderPattern.ReplaceAllString(rendered, "")

	return rendered
}

// ExtractVariables returns the distinct variable names referenced in a
// template, in order of first appearance. Used by validation tooling, not
// on the dispatch path.
func (s *TemplateService) ExtractVariables(template string) []string {
	seen := make(map[string]bool)
	names := []string{}

	for _, match := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		name := match[1]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	return names
}

// ValidateTemplate checks a template for balanced delimiters and unknown
// variable references against the known catalog
func (s *TemplateService) ValidateTemplate(template string) error {
	if template == "" {
		return fmt.Errorf("template cannot be empty")
	}

	openCount := strings.Count(template, "{{")
	closeCount := strings.Count(template, "}}")
	if openCount != closeCount {
		return fmt.Errorf("template has unbalanced placeholders: %d open, %d close", openCount, closeCount)
	}

	known := make(map[string]bool, len(KnownVariables))
	for _, v := range KnownVariables {
		known[v] = true
	}

	unknown := []string{}
	for _, name := range s.ExtractVariables(template) {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}

	if len(unknown) > 0 {
		return fmt.Errorf("template references unknown variables: %s", strings.Join(unknown, ", "))
	}

	return nil
}
