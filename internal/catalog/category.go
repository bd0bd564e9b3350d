package catalog

import (
	"errors"
	"sort"

	"github.com/DaviAleixo/pollyana3-sub000/internal/model"
)

var (
	ErrRootCategory  = errors.New("a categoria \"Todos\" não pode ser removida nem ocultada")
	ErrCategoryCycle = errors.New("uma categoria não pode ser descendente de si mesma")
)

// CategoryNode is a category with its ordered children.
type CategoryNode struct {
	model.Category
	Children []CategoryNode
}

func childIndex(categories []model.Category) map[uint][]model.Category {
	idx := make(map[uint][]model.Category, len(categories))
	for _, c := range categories {
		if c.ParentID == nil {
			continue
		}
		idx[*c.ParentID] = append(idx[*c.ParentID], c)
	}
	return idx
}

// Descendants returns the category with id plus every category reachable
// through child links, breadth first. Unknown ids yield an empty slice.
// Visited ids are tracked so a malformed (cyclic) tree still terminates.
func Descendants(categories []model.Category, id uint) []model.Category {
	var start *model.Category
	for i := range categories {
		if categories[i].ID == id {
			start = &categories[i]
			break
		}
	}
	if start == nil {
		return []model.Category{}
	}

	children := childIndex(categories)
	visited := map[uint]bool{start.ID: true}
	out := []model.Category{*start}
	queue := []uint{start.ID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur] {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	return out
}

// DescendantIDs is Descendants as a set.
func DescendantIDs(categories []model.Category, id uint) map[uint]struct{} {
	set := make(map[uint]struct{})
	for _, c := range Descendants(categories, id) {
		set[c.ID] = struct{}{}
	}
	return set
}

// WouldCreateCycle reports whether making newParent the parent of id would
// turn id into its own ancestor.
func WouldCreateCycle(categories []model.Category, id uint, newParent *uint) bool {
	if newParent == nil {
		return false
	}
	_, inside := DescendantIDs(categories, id)[*newParent]
	return inside
}

// DeletionPlan describes how removing a category reshapes the tree: its
// direct children move to its parent and its products move to the root.
type DeletionPlan struct {
	CategoryID uint
	NewParent  *uint
	Children   []uint
}

// PlanDeletion builds the DeletionPlan for id. The second return is false
// when id does not exist. The root category is refused.
func PlanDeletion(categories []model.Category, id uint) (DeletionPlan, bool, error) {
	if id == model.RootCategoryID {
		return DeletionPlan{}, false, ErrRootCategory
	}
	var target *model.Category
	for i := range categories {
		if categories[i].ID == id {
			target = &categories[i]
			break
		}
	}
	if target == nil {
		return DeletionPlan{}, false, nil
	}

	plan := DeletionPlan{CategoryID: id, NewParent: target.ParentID}
	for _, child := range childIndex(categories)[id] {
		plan.Children = append(plan.Children, child.ID)
	}
	return plan, true, nil
}

func sortCategories(list []model.Category) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].SortOrder != list[j].SortOrder {
			return list[i].SortOrder < list[j].SortOrder
		}
		return list[i].Name < list[j].Name
	})
}

// BuildTree nests categories under their parents, siblings ordered by
// SortOrder then Name. Categories whose parent is missing become roots.
func BuildTree(categories []model.Category) []CategoryNode {
	known := make(map[uint]bool, len(categories))
	for _, c := range categories {
		known[c.ID] = true
	}

	var roots []model.Category
	for _, c := range categories {
		if c.ParentID == nil || !known[*c.ParentID] {
			roots = append(roots, c)
		}
	}

	children := childIndex(categories)
	visited := make(map[uint]bool, len(categories))
	var build func(list []model.Category) []CategoryNode
	build = func(list []model.Category) []CategoryNode {
		list = append([]model.Category(nil), list...)
		sortCategories(list)
		nodes := make([]CategoryNode, 0, len(list))
		for _, c := range list {
			if visited[c.ID] {
				continue
			}
			visited[c.ID] = true
			nodes = append(nodes, CategoryNode{Category: c, Children: build(children[c.ID])})
		}
		return nodes
	}
	return build(roots)
}

// NextSortOrder returns the order slot after the last sibling under parent.
func NextSortOrder(categories []model.Category, parent *uint) int {
	next := 0
	for _, c := range categories {
		if !sameParent(c.ParentID, parent) {
			continue
		}
		if c.SortOrder >= next {
			next = c.SortOrder + 1
		}
	}
	return next
}

func sameParent(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
