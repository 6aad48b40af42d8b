// Package classifier recognizes boilerplate lines printed by publishers at the top of papers.
//
// The rule table is a best-effort heuristic tuned on real documents. It is neither complete
// nor free of false positives: a title that contains a year or the word "JOURNAL" is noise
// to it. Extend the table instead of changing the matching algorithm.
package classifier

import (
	"fmt"
	"regexp"
)

// Rule is one boilerplate pattern and what it stands for.
type Rule struct {
	Pattern string // RE2 syntax, case-sensitive unless it carries (?i)
	Meaning string
}

// DefaultRules are matched in order against every candidate line.
var DefaultRules = []Rule{
	{`JOURNAL`, "journal name"},
	{`PROCEEDINGS`, "proceedings"},
	{`LECTURE NOTES`, "lecture notes series"},
	{`ACCEPTED MANUSCRIPT`, "manuscript status"},
	{`TRANSACTIONS`, "transactions series"},
	{`ORIGINAL PAPER`, "article type"},
	{`OPEN ACCESS`, "access notice"},
	{`SUBMITTED`, "submission notice"},
	{`PUBLISH`, "publication notice"},
	{`ORIGINAL ARTICLE`, "article type"},
	{`REGULAR PAPER`, "article type"},
	{`ScienceDirect`, "publisher"},
	{`Open Access`, "access notice"},
	{`IEEE TRANSACTIONS`, "transactions series"},
	{`REGULAR ARTICLE`, "article type"},
	{`AUTHOR`, "author notice"},
	{`PRINTED`, "printing notice"},
	{`MANUSCRIPT`, "manuscript status"},
	{`EDITOR`, "editor notice"},
	{`IN PRESS`, "manuscript status"},
	{`TO APPEAR`, "manuscript status"},
	{`PREPRINT`, "manuscript status"},
	{`(?i)\bdoi\b`, "DOI"},
	{`(?i)\barxiv\b`, "arXiv identifier"},
	{`AVAILABLE ONLINE`, "availability notice"},
	{`COPYRIGHT`, "copyright notice"},
	{`19\d\d`, "year"},
	{`20\d\d`, "year"},
	{`VOL(\.|UME)`, "volume marker"},
	{` NO\.`, "issue marker"},
}

type compiledRule struct {
	rule Rule
	re   *regexp.Regexp
}

// Classifier matches lines against an ordered rule table.
type Classifier struct {
	rules []compiledRule
}

// New compiles DefaultRules followed by extra.
// It fails if any extra pattern is not valid RE2.
func New(extra ...Rule) (*Classifier, error) {
	c := &Classifier{}
	for _, r := range DefaultRules {
		c.rules = append(c.rules, compiledRule{rule: r, re: regexp.MustCompile(r.Pattern)})
	}
	for i, r := range extra {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("noise rule %d %q: %w", i, r.Pattern, err)
		}
		c.rules = append(c.rules, compiledRule{rule: r, re: re})
	}
	return c, nil
}

// Default is the classifier built from DefaultRules only.
var Default = mustDefault()

func mustDefault() *Classifier {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Match returns the first rule that matches anywhere in line.
func (c *Classifier) Match(line string) (Rule, bool) {
	for _, cr := range c.rules {
		if cr.re.MatchString(line) {
			return cr.rule, true
		}
	}
	return Rule{}, false
}

// IsNoise reports whether line matches any rule.
func (c *Classifier) IsNoise(line string) bool {
	_, ok := c.Match(line)
	return ok
}

// Rules returns a copy of the rule table in match order.
func (c *Classifier) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	for i, cr := range c.rules {
		out[i] = cr.rule
	}
	return out
}

// IsNoise reports whether line matches one of DefaultRules.
func IsNoise(line string) bool {
	return Default.IsNoise(line)
}
