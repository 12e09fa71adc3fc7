package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Workspace is the full collection of pages and their display order.
//
// A Workspace value is treated as an immutable snapshot: mutations build a
// new value and leave the previous one untouched, so unchanged pages and
// slices may be shared between snapshots. Callers must not modify the
// maps or slices of a snapshot they did not build.
type Workspace struct {
	// Pages maps page id to page.
	Pages map[string]Page

	// PageOrder enumerates page ids in creation/display order.
	PageOrder []string
}

// NewWorkspace builds a workspace from pages in the given order.
func NewWorkspace(pages ...Page) *Workspace {
	ws := &Workspace{
		Pages:     make(map[string]Page, len(pages)),
		PageOrder: make([]string, 0, len(pages)),
	}
	for _, p := range pages {
		ws.Pages[p.ID] = p
		ws.PageOrder = append(ws.PageOrder, p.ID)
	}
	return ws
}

// Page returns the page with the given id.
func (w *Workspace) Page(id string) (Page, bool) {
	p, ok := w.Pages[id]
	return p, ok
}

// Len returns the number of pages.
func (w *Workspace) Len() int {
	return len(w.Pages)
}

// RootPages returns the parentless pages in PageOrder.
func (w *Workspace) RootPages() []Page {
	var roots []Page
	for _, id := range w.PageOrder {
		if p, ok := w.Pages[id]; ok && p.ParentID == "" {
			roots = append(roots, p)
		}
	}
	return roots
}

// ChildPages returns the resolvable children of a page in Children order.
func (w *Workspace) ChildPages(id string) []Page {
	parent, ok := w.Pages[id]
	if !ok {
		return nil
	}
	children := make([]Page, 0, len(parent.Children))
	for _, cid := range parent.Children {
		if c, ok := w.Pages[cid]; ok {
			children = append(children, c)
		}
	}
	return children
}

// Subtree returns id followed by every page reachable through Children,
// depth first. Ids already visited are skipped, so cyclic data terminates.
func (w *Workspace) Subtree(id string) []string {
	if _, ok := w.Pages[id]; !ok {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	var walk func(string)
	walk = func(pid string) {
		if seen[pid] {
			return
		}
		seen[pid] = true
		out = append(out, pid)
		p, ok := w.Pages[pid]
		if !ok {
			return
		}
		for _, c := range p.Children {
			walk(c)
		}
	}
	walk(id)
	return out
}

// Clone returns a shallow copy with its own map and order slice.
// Page values are shared.
func (w *Workspace) Clone() *Workspace {
	return &Workspace{
		Pages:     maps.Clone(w.Pages),
		PageOrder: slices.Clone(w.PageOrder),
	}
}

// ValidationError describes one violated workspace invariant.
type ValidationError struct {
	PageID  string
	Message string
}

func (e ValidationError) Error() string {
	if e.PageID == "" {
		return e.Message
	}
	return fmt.Sprintf("page %s: %s", e.PageID, e.Message)
}

// ValidationErrors is the set of problems found by Validate.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d workspace problem(s): %s", len(v), strings.Join(msgs, "; "))
}

// Unwrap lets errors.Is match ErrInvalidInput.
func (v ValidationErrors) Unwrap() error {
	return ErrInvalidInput
}

// Validate checks the workspace invariants and returns nil when all hold.
func (w *Workspace) Validate() error {
	var problems ValidationErrors
	add := func(pageID, format string, args ...any) {
		problems = append(problems, ValidationError{PageID: pageID, Message: fmt.Sprintf(format, args...)})
	}

	inOrder := make(map[string]bool, len(w.PageOrder))
	for _, id := range w.PageOrder {
		if inOrder[id] {
			add(id, "listed more than once in page order")
		}
		inOrder[id] = true
		if _, ok := w.Pages[id]; !ok {
			add(id, "in page order but missing from pages")
		}
	}

	for _, id := range slices.Sorted(maps.Keys(w.Pages)) {
		p := w.Pages[id]
		if p.ID != id {
			add(id, "stored under mismatched id %q", p.ID)
		}
		if !inOrder[id] {
			add(id, "missing from page order")
		}
		if p.UpdatedAt.Before(p.CreatedAt) {
			add(id, "updated before it was created")
		}
		if p.ParentID != "" {
			parent, ok := w.Pages[p.ParentID]
			switch {
			case !ok:
				add(id, "parent %s does not exist", p.ParentID)
			case !slices.Contains(parent.Children, id):
				add(id, "parent %s does not list it as a child", p.ParentID)
			}
		}
		for _, cid := range p.Children {
			child, ok := w.Pages[cid]
			switch {
			case !ok:
				add(id, "child %s does not exist", cid)
			case child.ParentID != id:
				add(id, "child %s has parent %q", cid, child.ParentID)
			}
		}
		if w.hasCycle(id) {
			add(id, "page is its own descendant")
		}

		seen := make(map[string]bool, len(p.Blocks))
		for _, b := range p.Blocks {
			if seen[b.ID] {
				add(id, "duplicate block id %s", b.ID)
			}
			seen[b.ID] = true
			if !b.Type.IsValid() {
				add(id, "block %s has unknown type %q", b.ID, b.Type)
			} else if !b.Type.Accepts(b.Properties) {
				add(id, "block %s has properties that do not match type %s", b.ID, b.Type)
			} else if !b.Type.CanHaveContent() && b.Content != "" {
				add(id, "block %s is a %s with content", b.ID, b.Type)
			}
			if err := ValidateProperties(b.Properties); err != nil {
				add(id, "block %s: %v", b.ID, err)
			}
			if b.UpdatedAt.Before(b.CreatedAt) {
				add(id, "block %s updated before it was created", b.ID)
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

// hasCycle reports whether id can reach itself through Children.
func (w *Workspace) hasCycle(id string) bool {
	seen := map[string]bool{}
	stack := slices.Clone(w.Pages[id].Children)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == id {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, w.Pages[cur].Children...)
	}
	return false
}
