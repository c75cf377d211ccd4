package takaichirag

import "regexp"

// Category identifies one of the fixed sections of the source website.
type Category string

// The five categories published on the site. Idea, posture and results are
// single pages; kaiken (press conferences) and column are list pages that
// link to dated detail articles.
const (
	CategoryIdea    Category = "idea"
	CategoryPosture Category = "posture"
	CategoryResults Category = "results"
	CategoryKaiken  Category = "kaiken"
	CategoryColumn  Category = "column"
)

// Categories returns all categories in crawl order.
func Categories() []Category {
	return []Category{
		CategoryIdea,
		CategoryPosture,
		CategoryResults,
		CategoryKaiken,
		CategoryColumn,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryIdea, CategoryPosture, CategoryResults, CategoryKaiken, CategoryColumn:
		return true
	}
	return false
}

// CategorySpec describes how a category is laid out on the site.
type CategorySpec struct {
	// StartPath is the category's entry page, relative to the site root.
	StartPath string

	// Label is the Japanese section heading, prepended to indexed content
	// to give retrieval some section context.
	Label string

	// TwoLevel marks categories whose entry page is a list of links to
	// detail articles rather than an article itself.
	TwoLevel bool

	// ListPattern matches further list pages linked from the entry page.
	// Only set for two-level categories.
	ListPattern *regexp.Regexp

	// DetailPattern matches detail article pages. Only set for two-level
	// categories.
	DetailPattern *regexp.Regexp
}

var categorySpecs = map[Category]CategorySpec{
	CategoryIdea: {
		StartPath: "idea.html",
		Label:     "基本理念",
	},
	CategoryPosture: {
		StartPath: "posture.html",
		Label:     "政治姿勢",
	},
	CategoryResults: {
		StartPath: "results.html",
		Label:     "実績",
	},
	CategoryKaiken: {
		StartPath:     "kaiken.html",
		Label:         "記者会見",
		TwoLevel:      true,
		ListPattern:   regexp.MustCompile(`kaiken_list\d+\.html`),
		DetailPattern: regexp.MustCompile(`kaiken_detail\d+\.html`),
	},
	CategoryColumn: {
		StartPath:     "column.html",
		Label:         "コラム",
		TwoLevel:      true,
		ListPattern:   regexp.MustCompile(`column_list\d+\.html`),
		DetailPattern: regexp.MustCompile(`column_detail\d+\.html`),
	},
}

// Spec returns the layout description for the category.
// The zero CategorySpec is returned for unknown categories.
func (c Category) Spec() CategorySpec {
	return categorySpecs[c]
}

// Label returns the category's Japanese section heading, falling back to
// the category name itself.
func (c Category) Label() string {
	if spec, ok := categorySpecs[c]; ok {
		return spec.Label
	}
	return string(c)
}
