package changelog

// Grouped maps every category to its items in input order
type Grouped map[Category][]Item

// Group describes each record and buckets it by category. Every category of
// the enumeration is present in the result, possibly with no items.
func Group(records []CommitRecord) (Grouped, error) {
	grouped := make(Grouped, len(categoryOrder))
	for _, c := range categoryOrder {
		grouped[c] = []Item{}
	}

	for _, rec := range records {
		item, err := Describe(rec)
		if err != nil {
			return nil, err
		}
		group := item.Group
		if !group.Valid() {
			group = CategoryOthers
		}
		grouped[group] = append(grouped[group], item)
	}

	return grouped, nil
}

// Total returns the number of items across all categories
func (g Grouped) Total() int {
	n := 0
	for _, items := range g {
		n += len(items)
	}
	return n
}
