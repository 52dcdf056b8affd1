package identify

import "sort"

// tagSet collects tags without duplicates.
type tagSet map[string]struct{}

func newTagSet(tags ...string) tagSet {
	s := make(tagSet, len(tags)+4)
	s.add(tags...)
	return s
}

func (s tagSet) add(tags ...string) {
	for _, t := range tags {
		s[t] = struct{}{}
	}
}

func (s tagSet) has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// sorted returns the tags in lexical order for stable output.
func (s tagSet) sorted() []string {
	tags := make([]string, 0, len(s))
	for t := range s {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
