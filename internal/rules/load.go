package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML rules file and merges it over the built-in defaults.
// Only sections present in the file replace their defaults; an empty file
// yields the default table. The returned Ruleset is compiled and ready.
func Load(path string) (*Ruleset, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	var override Ruleset
	if err := yaml.Unmarshal(b, &override); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}

	rs := defaultRuleset()
	merge(rs, &override)
	if err := rs.Compile(); err != nil {
		return nil, err
	}
	return rs, nil
}

func merge(base, over *Ruleset) {
	for field, pr := range over.Presence {
		base.Presence[field] = pr
	}
	if len(over.ModalityPhrases) > 0 {
		base.ModalityPhrases = over.ModalityPhrases
	}
	if len(over.TitleStopwords) > 0 {
		base.TitleStopwords = over.TitleStopwords
	}
	if len(over.FacultyLabels) > 0 {
		base.FacultyLabels = over.FacultyLabels
	}
	if len(over.Credentials) > 0 {
		base.Credentials = over.Credentials
	}
	if len(over.SessionPatterns) > 0 {
		base.SessionPatterns = over.SessionPatterns
	}
	if len(over.InPersonTokens) > 0 {
		base.InPersonTokens = over.InPersonTokens
	}
	if len(over.OnlineTokens) > 0 {
		base.OnlineTokens = over.OnlineTokens
	}
	if len(over.GradingKeywords) > 0 {
		base.GradingKeywords = over.GradingKeywords
	}
}
