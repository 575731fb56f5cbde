package event

import (
	"fmt"
	"strings"
)

// Tag is a course-type category derived from an event description
type Tag string

const (
	TagTC    Tag = "TC" // tronc commun
	TagIDG   Tag = "IDG"
	TagIR    Tag = "IR"
	TagOther Tag = "OTHER"
)

// Rule maps a case-sensitive description prefix to a tag
type Rule struct {
	Prefix string `yaml:"prefix" json:"prefix"`
	Tag    Tag    `yaml:"tag" json:"tag"`
}

// DefaultRules returns the standard prefix rules in priority order:
// common-core prefixes first, then the A/B/C option groups, then IDG and IR.
func DefaultRules() []Rule {
	rules := []Rule{
		{Prefix: "A0", Tag: TagTC},
		{Prefix: "B0", Tag: TagTC},
		{Prefix: "C0", Tag: TagTC},
		{Prefix: "RaN", Tag: TagTC},
	}
	for _, group := range []string{"A", "B", "C"} {
		for i := 1; i <= 5; i++ {
			code := fmt.Sprintf("%s%d", group, i)
			rules = append(rules, Rule{Prefix: code, Tag: Tag(code)})
		}
	}
	return append(rules,
		Rule{Prefix: "IDG", Tag: TagIDG},
		Rule{Prefix: "IR", Tag: TagIR},
	)
}

// Classifier assigns tags with an ordered, first-match-wins rule list
type Classifier struct {
	Rules   []Rule
	Default Tag
}

// NewClassifier creates a classifier. An empty default falls back to OTHER.
func NewClassifier(rules []Rule, def Tag) *Classifier {
	if def == "" {
		def = TagOther
	}
	return &Classifier{Rules: rules, Default: def}
}

// DefaultClassifier uses DefaultRules with OTHER as catch-all
func DefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules(), TagOther)
}

// Classify returns the tag for description. When no rule matches, the
// default tag is returned together with an unknown_category diagnostic.
func (c *Classifier) Classify(description string) (Tag, *Diagnostic) {
	for _, r := range c.Rules {
		if r.Prefix != "" && strings.HasPrefix(description, r.Prefix) {
			return r.Tag, nil
		}
	}
	return c.Default, &Diagnostic{
		Kind:        DiagUnknownCategory,
		Message:     fmt.Sprintf("no category prefix matched, using %s", c.Default),
		Description: description,
	}
}

// Partition groups events by tag
type Partition struct {
	Tags        []Tag // first-appearance order
	Groups      map[Tag][]Event
	Diagnostics []Diagnostic
}

// Partition splits events by tag. Every event lands in exactly one group and
// each group keeps the input order.
func (c *Classifier) Partition(events []Event) *Partition {
	p := &Partition{
		Tags:        make([]Tag, 0),
		Groups:      make(map[Tag][]Event),
		Diagnostics: make([]Diagnostic, 0),
	}

	for _, e := range events {
		tag, diag := c.Classify(e.Description)
		if diag != nil {
			diag.Source = e.Source
			p.Diagnostics = append(p.Diagnostics, *diag)
		}
		if _, seen := p.Groups[tag]; !seen {
			p.Tags = append(p.Tags, tag)
		}
		p.Groups[tag] = append(p.Groups[tag], e)
	}

	return p
}

// Len returns the number of events across all groups
func (p *Partition) Len() int {
	n := 0
	for _, events := range p.Groups {
		n += len(events)
	}
	return n
}
