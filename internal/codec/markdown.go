// Package codec converts prompts to and from their portable document forms.
package codec

import (
	"fmt"
	"regexp"
	"strings"
)

// Strategy names the extraction step that recovered prompt content
type Strategy string

const (
	StrategySection   Strategy = "section"
	StrategyCodeBlock Strategy = "code_block"
	StrategyRemainder Strategy = "remainder"
	StrategyJSON      Strategy = "json"
)

const (
	defaultTitle  = "Prompt"
	sectionHeader = "## System Prompt"
	fence         = "```"
)

var (
	titleLine     = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
	sectionMarker = regexp.MustCompile(`(?im)^##[ \t]+System[ \t]+Prompt[ \t]*$`)
	formatSection = regexp.MustCompile(`(?im)^##[ \t]+(System[ \t]+Prompt|Notes|Notas)\b.*$`)
	notesHeader   = regexp.MustCompile(`(?i)^##[ \t]+(Notes|Notas)\b`)
	ruleLine      = regexp.MustCompile(`^[ \t]*-{3,}[ \t]*$`)
)

// Extractor pulls prompt content out of a document; an empty result means no match.
type Extractor struct {
	Strategy Strategy
	Extract  func(doc string) string
}

// DefaultChain is the fixed extraction precedence for markdown documents
var DefaultChain = []Extractor{
	{Strategy: StrategySection, Extract: ExtractSection},
	{Strategy: StrategyCodeBlock, Extract: ExtractCodeBlock},
	{Strategy: StrategyRemainder, Extract: ExtractRemainder},
}

// Decoded is a prompt recovered from a portable document
type Decoded struct {
	Name     string   `json:"name"`
	Content  string   `json:"content"`
	Strategy Strategy `json:"strategy"`
}

// EncodePrompt renders a prompt as a markdown document
func EncodePrompt(name, content string) string {
	if strings.TrimSpace(name) == "" {
		name = defaultTitle
	}
	return fmt.Sprintf("# %s\n\n%s\n\n%s\n\n", name, sectionHeader, content)
}

// DecodeMarkdown recovers a prompt from a markdown document using DefaultChain.
// fallbackName is used when the document has no title line.
func DecodeMarkdown(doc, fallbackName string) (*Decoded, error) {
	doc = normalizeNewlines(doc)

	content, strategy, err := Extract(doc, DefaultChain)
	if err != nil {
		return nil, err
	}

	return &Decoded{
		Name:     ExtractTitle(doc, fallbackName),
		Content:  content,
		Strategy: strategy,
	}, nil
}

// Extract runs the chain in order and returns the first non-empty result
func Extract(doc string, chain []Extractor) (string, Strategy, error) {
	for _, ex := range chain {
		if content := ex.Extract(doc); content != "" {
			return content, ex.Strategy, nil
		}
	}
	return "", "", ErrContentNotFound
}

// ExtractTitle returns the first top-level title, or fallback when there is none
func ExtractTitle(doc, fallback string) string {
	m := titleLine.FindStringSubmatch(normalizeNewlines(doc))
	if m == nil {
		return fallback
	}
	if title := strings.TrimSpace(m[1]); title != "" {
		return title
	}
	return fallback
}

// ExtractSection returns the text under the "## System Prompt" marker, up to the
// next section of the portable format, the first horizontal rule or the end of
// the document.
func ExtractSection(doc string) string {
	loc := sectionMarker.FindStringIndex(doc)
	if loc == nil {
		return ""
	}

	rest := doc[loc[1]:]
	if next := formatSection.FindStringIndex(rest); next != nil {
		rest = rest[:next[0]]
	}
	lines := strings.Split(rest, "\n")
	for i, line := range lines {
		if ruleLine.MatchString(strings.TrimRight(line, "\r")) {
			lines = lines[:i]
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ExtractCodeBlock returns the body of the first fenced code block
func ExtractCodeBlock(doc string) string {
	start := strings.Index(doc, fence)
	if start == -1 {
		return ""
	}

	after := doc[start+len(fence):]
	end := strings.Index(after, fence)
	if end == -1 {
		return ""
	}

	body := after[:end]
	// An info string is a single word on the fence line.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(strings.TrimSpace(body[:nl]), " \t") {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body)
}

// ExtractRemainder drops a leading title line and a leading notes section and
// treats the rest, minus horizontal rules, as the content.
func ExtractRemainder(doc string) string {
	lines := strings.Split(doc, "\n")

	start := 0
	if len(lines) > 0 && strings.HasPrefix(lines[0], "#") {
		start = 1
	}

	first := start
	for first < len(lines) && strings.TrimSpace(lines[first]) == "" {
		first++
	}
	if first < len(lines) && notesHeader.MatchString(lines[first]) {
		end := first + 1
		for end < len(lines) && !strings.HasPrefix(lines[end], "#") && !ruleLine.MatchString(lines[end]) {
			end++
		}
		if end < len(lines) && sectionMarker.MatchString(lines[end]) {
			end++
		}
		start = end
	}

	kept := make([]string, 0, len(lines)-start)
	for _, line := range lines[min(start, len(lines)):] {
		if ruleLine.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
