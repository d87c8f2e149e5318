// Package classify maps changed file paths to the follow-up actions a
// maintainer has to run after pulling a change.
package classify

import (
	"strings"

	"github.com/nahidhasan98/diff-notifier/internal/models"
)

// Predicate reports whether a rule applies to a path
type Predicate func(path string) bool

// Rule sets Flags on the classification when Match accepts a path
type Rule struct {
	Name  string
	Match Predicate
	Flags models.Classification
}

// Exact matches any of the given paths verbatim
func Exact(paths ...string) Predicate {
	return func(path string) bool {
		for _, p := range paths {
			if path == p {
				return true
			}
		}
		return false
	}
}

// Prefix matches paths starting with prefix. The test is a plain string
// prefix, so "database/migrationsold/x" matches "database/migrations".
func Prefix(prefix string) Predicate {
	return func(path string) bool {
		return strings.HasPrefix(path, prefix)
	}
}

// DefaultRules is the rule table, in evaluation order
var DefaultRules = []Rule{
	{
		Name:  "node-manifest",
		Match: Exact("package.json", "yarn.lock"),
		Flags: models.Classification{NeedsPackageManagerInstall: true, NeedsAssetBuild: true},
	},
	{
		Name:  "composer-manifest",
		Match: Exact("composer.json", "composer.lock"),
		Flags: models.Classification{NeedsDependencyInstall: true},
	},
	{
		Name:  "webpack-config",
		Match: Exact("webpack.config.js"),
		Flags: models.Classification{NeedsAssetBuild: true},
	},
	{
		Name:  "asset-sources",
		Match: Prefix("resources/assets/src"),
		Flags: models.Classification{NeedsAssetBuild: true},
	},
	{
		Name:  "migrations",
		Match: Prefix("database/migrations"),
		Flags: models.Classification{NeedsDatabaseMigration: true},
	},
}

// Classifier evaluates a rule table against changed files
type Classifier struct {
	rules []Rule
}

// New creates a classifier; nil rules selects DefaultRules
func New(rules []Rule) *Classifier {
	if rules == nil {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify returns the OR-combined flags of every file. Each path is matched
// by at most one rule, the first that accepts it.
func (c *Classifier) Classify(files []models.ChangedFile) models.Classification {
	var result models.Classification
	for _, file := range files {
		if rule, ok := c.Match(file.Path); ok {
			result = result.Merge(rule.Flags)
		}
	}
	return result
}

// Match returns the first rule accepting path
func (c *Classifier) Match(path string) (Rule, bool) {
	for _, rule := range c.rules {
		if rule.Match(path) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Classify runs the default rule table
func Classify(files []models.ChangedFile) models.Classification {
	return New(nil).Classify(files)
}
