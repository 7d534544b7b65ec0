package doctree

// BuildHierarchy nests headings by level, in document order, under a
// synthetic level-0 root. A heading closes every open node whose level is
// greater than or equal to its own, so skipped levels still nest (h1 then h3
// puts the h3 under the h1).
func BuildHierarchy(headings []Heading) *HierarchyNode {
	root := &HierarchyNode{Level: 0, Children: []*HierarchyNode{}}
	stack := []*HierarchyNode{root}

	for _, h := range headings {
		for len(stack) > 1 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		node := &HierarchyNode{
			Text:           h.Text,
			Level:          h.Level,
			Importance:     h.Importance,
			SectionContext: h.SectionContext,
			Children:       []*HierarchyNode{},
		}
		parent := stack[len(stack)-1]
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}

	return root
}

// Flatten reads the outline depth-first, skipping the synthetic root.
func Flatten(root *HierarchyNode) []Heading {
	var out []Heading
	var walk func(nodes []*HierarchyNode)
	walk = func(nodes []*HierarchyNode) {
		for _, n := range nodes {
			out = append(out, Heading{
				Level:          n.Level,
				Text:           n.Text,
				SectionContext: n.SectionContext,
				Importance:     n.Importance,
			})
			walk(n.Children)
		}
	}
	if root != nil {
		walk(root.Children)
	}
	return out
}
