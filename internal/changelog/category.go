package changelog

// Category is the coarse classification of a commit's intent
type Category string

const (
	CategoryFeat     Category = "feat"
	CategoryFix      Category = "fix"
	CategoryDocs     Category = "docs"
	CategoryChore    Category = "chore"
	CategoryRefactor Category = "refactor"
	CategoryPerf     Category = "perf"
	CategoryOthers   Category = "others" // catch-all
)

// categoryOrder is the enumeration order used for grouping and rendering
var categoryOrder = [...]Category{
	CategoryFeat,
	CategoryFix,
	CategoryDocs,
	CategoryChore,
	CategoryRefactor,
	CategoryPerf,
	CategoryOthers,
}

type categoryLabels struct {
	title string
	verb  string
	noun  string
}

var labels = map[Category]categoryLabels{
	CategoryFeat:     {title: "Features", verb: "Added", noun: "features"},
	CategoryFix:      {title: "Bug fixes", verb: "Fixed", noun: "bug fixes"},
	CategoryDocs:     {title: "Documentation", verb: "Updated documentation for", noun: "documentation updates"},
	CategoryChore:    {title: "Maintenance", verb: "Performed maintenance on", noun: "maintenance tasks"},
	CategoryRefactor: {title: "Refactors", verb: "Refactored", noun: "refactors"},
	CategoryPerf:     {title: "Performance", verb: "Improved performance of", noun: "performance improvements"},
	CategoryOthers:   {title: "Other changes", verb: "Changes to", noun: "other changes"},
}

// Categories returns the category enumeration in rendering order
func Categories() []Category {
	out := make([]Category, len(categoryOrder))
	copy(out, categoryOrder[:])
	return out
}

// Valid reports whether c is a member of the enumeration
func (c Category) Valid() bool {
	_, ok := labels[c]
	return ok
}

// Title returns the section heading for the category
func (c Category) Title() string {
	if l, ok := labels[c]; ok {
		return l.title
	}
	return string(c)
}

// Verb returns the phrase used to open a commit sentence
func (c Category) Verb() string {
	if l, ok := labels[c]; ok {
		return l.verb
	}
	return labels[CategoryOthers].verb
}

// Noun returns the plural used in group summaries
func (c Category) Noun() string {
	if l, ok := labels[c]; ok {
		return l.noun
	}
	return "changes"
}
