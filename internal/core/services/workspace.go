package services

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/custodia-labs/quire/internal/core/domain"
	"github.com/custodia-labs/quire/internal/core/ports/driving"
	"github.com/custodia-labs/quire/internal/logger"
)

// Ensure WorkspaceStore implements the interface.
var _ driving.WorkspaceService = (*WorkspaceStore)(nil)

// WorkspaceStore is the in-memory source of truth for a workspace.
//
// Every successful mutation builds a new *domain.Workspace (copy-on-write):
// the page map is copied, the touched page gets fresh slices and untouched
// pages are shared with the previous snapshot. A failed mutation leaves the
// current snapshot in place. Listeners are called after the lock is released.
type WorkspaceStore struct {
	factory *EntityFactory

	mu        sync.RWMutex
	current   *domain.Workspace
	version   uint64
	listeners map[int]func(*domain.Workspace, uint64)
	nextID    int
}

// NewWorkspaceStore creates a store holding ws.
func NewWorkspaceStore(ws *domain.Workspace, factory *EntityFactory) *WorkspaceStore {
	if ws == nil {
		ws = factory.DefaultWorkspace()
	}
	return &WorkspaceStore{
		factory:   factory,
		current:   ws,
		listeners: make(map[int]func(*domain.Workspace, uint64)),
	}
}

// Snapshot returns the current workspace. Callers must not modify it.
func (s *WorkspaceStore) Snapshot() *domain.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Version returns the number of successful mutations so far.
func (s *WorkspaceStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// GetPageByID returns a copy of the page.
func (s *WorkspaceStore) GetPageByID(id string) (domain.Page, bool) {
	p, ok := s.Snapshot().Page(id)
	if !ok {
		return domain.Page{}, false
	}
	return p.Clone(), true
}

// RootPages returns the top-level pages in display order.
func (s *WorkspaceStore) RootPages() []domain.Page {
	return s.Snapshot().RootPages()
}

// ChildPages returns the children of a page in display order.
func (s *WorkspaceStore) ChildPages(id string) []domain.Page {
	return s.Snapshot().ChildPages(id)
}

// NewBlock builds a block of the given type with fresh id and timestamps.
func (s *WorkspaceStore) NewBlock(blockType domain.BlockType, content string) domain.Block {
	return s.factory.NewBlock(blockType, content)
}

// Subscribe registers a listener called after every successful mutation.
func (s *WorkspaceStore) Subscribe(fn func(ws *domain.Workspace, version uint64)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// UpdatePage merges the update into the page and refreshes UpdatedAt.
func (s *WorkspaceStore) UpdatePage(id string, update driving.PageUpdate) error {
	return s.mutatePage(id, func(p *domain.Page) error {
		if update.Title != nil {
			p.Title = *update.Title
		}
		if update.Icon != nil {
			p.Icon = *update.Icon
		}
		if update.IsExpanded != nil {
			p.IsExpanded = *update.IsExpanded
		}
		return nil
	})
}

// AddBlock appends a block to the page.
func (s *WorkspaceStore) AddBlock(pageID string, block domain.Block) error {
	return s.mutatePage(pageID, func(p *domain.Page) error {
		if err := checkNewBlock(p, block); err != nil {
			return err
		}
		p.Blocks = append(slices.Clip(p.Blocks), block)
		return nil
	})
}

// InsertBlock inserts a block at index, clamped to [0, len(blocks)].
func (s *WorkspaceStore) InsertBlock(pageID string, block domain.Block, index int) error {
	return s.mutatePage(pageID, func(p *domain.Page) error {
		if err := checkNewBlock(p, block); err != nil {
			return err
		}
		index = max(0, min(index, len(p.Blocks)))
		p.Blocks = slices.Insert(slices.Clone(p.Blocks), index, block)
		return nil
	})
}

// InsertBlockAfter inserts a block directly after afterBlockID.
func (s *WorkspaceStore) InsertBlockAfter(pageID, afterBlockID string, block domain.Block) error {
	return s.mutatePage(pageID, func(p *domain.Page) error {
		idx := p.BlockIndex(afterBlockID)
		if idx < 0 {
			return fmt.Errorf("block %s: %w", afterBlockID, domain.ErrNotFound)
		}
		if err := checkNewBlock(p, block); err != nil {
			return err
		}
		p.Blocks = slices.Insert(slices.Clone(p.Blocks), idx+1, block)
		return nil
	})
}

// UpdateBlock merges the update into the block and refreshes UpdatedAt.
func (s *WorkspaceStore) UpdateBlock(pageID, blockID string, update driving.BlockUpdate) error {
	return s.mutatePage(pageID, func(p *domain.Page) error {
		idx := p.BlockIndex(blockID)
		if idx < 0 {
			return fmt.Errorf("block %s: %w", blockID, domain.ErrNotFound)
		}
		b := p.Blocks[idx]
		if update.Properties != nil && !b.Type.Accepts(update.Properties) {
			return fmt.Errorf("%w: %T does not apply to %s blocks", domain.ErrInvalidInput, update.Properties, b.Type)
		}
		if err := domain.ValidateProperties(update.Properties); err != nil {
			return err
		}
		if update.Content != nil {
			if !b.Type.CanHaveContent() && *update.Content != "" {
				return fmt.Errorf("%w: %s blocks cannot hold content", domain.ErrInvalidInput, b.Type)
			}
			b.Content = *update.Content
		}
		if update.Properties != nil {
			b.Properties = update.Properties
		}
		b.UpdatedAt = s.factory.Now()

		p.Blocks = slices.Clone(p.Blocks)
		p.Blocks[idx] = b
		return nil
	})
}

// DeleteBlock removes a block from the page.
func (s *WorkspaceStore) DeleteBlock(pageID, blockID string) error {
	return s.mutatePage(pageID, func(p *domain.Page) error {
		idx := p.BlockIndex(blockID)
		if idx < 0 {
			return fmt.Errorf("block %s: %w", blockID, domain.ErrNotFound)
		}
		p.Blocks = slices.Delete(slices.Clone(p.Blocks), idx, idx+1)
		return nil
	})
}

// ReorderBlocks moves the block at from to position to, keeping the
// relative order of all other blocks. Out-of-range indices are rejected.
func (s *WorkspaceStore) ReorderBlocks(pageID string, from, to int) error {
	return s.mutatePage(pageID, func(p *domain.Page) error {
		n := len(p.Blocks)
		if from < 0 || from >= n || to < 0 || to >= n {
			return fmt.Errorf("%w: cannot move block %d to %d in a page of %d blocks",
				domain.ErrInvalidInput, from, to, n)
		}
		blocks := slices.Clone(p.Blocks)
		moved := blocks[from]
		blocks = slices.Delete(blocks, from, from+1)
		p.Blocks = slices.Insert(blocks, to, moved)
		return nil
	})
}

// CreateNewPage creates a page and appends it to the page order. When
// parentID resolves, the page is linked under it; otherwise the page is
// created top-level and the unresolved parent is logged.
func (s *WorkspaceStore) CreateNewPage(title, parentID string) (domain.Page, error) {
	var created domain.Page
	err := s.commit(func(ws *domain.Workspace) error {
		if parentID != "" {
			if _, ok := ws.Pages[parentID]; !ok {
				logger.Warn("parent page %s not found, creating %q at top level", parentID, title)
				parentID = ""
			}
		}

		page := s.factory.NewPage(title, parentID)
		if _, exists := ws.Pages[page.ID]; exists {
			return fmt.Errorf("page %s: %w", page.ID, domain.ErrAlreadyExists)
		}
		ws.Pages[page.ID] = page
		ws.PageOrder = append(ws.PageOrder, page.ID)

		if parentID != "" {
			parent := ws.Pages[parentID].Clone()
			parent.Children = append(parent.Children, page.ID)
			parent.UpdatedAt = page.CreatedAt
			ws.Pages[parentID] = parent
		}
		created = page
		return nil
	})
	if err != nil {
		return domain.Page{}, err
	}
	return created.Clone(), nil
}

// DeletePage removes a page together with all of its descendants and
// unlinks it from its parent. The welcome page cannot be deleted, nor can
// any page whose subtree contains it.
func (s *WorkspaceStore) DeletePage(id string) error {
	return s.commit(func(ws *domain.Workspace) error {
		page, ok := ws.Pages[id]
		if !ok {
			return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
		}

		doomed := ws.Subtree(id)
		if slices.Contains(doomed, domain.WelcomePageID) {
			return fmt.Errorf("page %s: %w", domain.WelcomePageID, domain.ErrProtectedPage)
		}

		gone := make(map[string]bool, len(doomed))
		for _, pid := range doomed {
			gone[pid] = true
			delete(ws.Pages, pid)
		}
		ws.PageOrder = slices.DeleteFunc(ws.PageOrder, func(pid string) bool { return gone[pid] })

		if parent, ok := ws.Pages[page.ParentID]; ok && page.ParentID != "" {
			parent = parent.Clone()
			parent.Children = slices.DeleteFunc(parent.Children, func(pid string) bool { return pid == id })
			parent.UpdatedAt = s.factory.Now()
			ws.Pages[page.ParentID] = parent
		}

		if len(doomed) > 1 {
			logger.Debug("deleted page %s with %d descendant(s)", id, len(doomed)-1)
		}
		return nil
	})
}

// Replace swaps in a whole workspace.
func (s *WorkspaceStore) Replace(ws *domain.Workspace) error {
	if ws == nil {
		return fmt.Errorf("%w: nil workspace", domain.ErrInvalidInput)
	}
	if _, ok := ws.Pages[domain.WelcomePageID]; !ok {
		logger.Warn("replacement workspace has no welcome page")
	}
	return s.commit(func(next *domain.Workspace) error {
		next.Pages = maps.Clone(ws.Pages)
		next.PageOrder = slices.Clone(ws.PageOrder)
		return nil
	})
}

// mutatePage applies fn to a copy of the page and stamps UpdatedAt.
func (s *WorkspaceStore) mutatePage(id string, fn func(p *domain.Page) error) error {
	return s.commit(func(ws *domain.Workspace) error {
		page, ok := ws.Pages[id]
		if !ok {
			return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
		}
		if err := fn(&page); err != nil {
			return err
		}
		page.UpdatedAt = s.factory.Now()
		ws.Pages[id] = page
		return nil
	})
}

// commit runs fn against a shallow clone of the current snapshot and
// installs the clone only if fn succeeds.
func (s *WorkspaceStore) commit(fn func(ws *domain.Workspace) error) error {
	s.mu.Lock()
	next := s.current.Clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = next
	s.version++
	version := s.version
	listeners := slices.Collect(maps.Values(s.listeners))
	s.mu.Unlock()

	for _, l := range listeners {
		l(next, version)
	}
	return nil
}

// checkNewBlock validates a block before it joins a page.
func checkNewBlock(p *domain.Page, block domain.Block) error {
	if block.ID == "" {
		return fmt.Errorf("%w: block has no id", domain.ErrInvalidInput)
	}
	if !block.Type.IsValid() {
		return fmt.Errorf("%w: block type %q", domain.ErrUnsupportedType, block.Type)
	}
	if !block.Type.Accepts(block.Properties) {
		return fmt.Errorf("%w: %T does not apply to %s blocks", domain.ErrInvalidInput, block.Properties, block.Type)
	}
	if err := domain.ValidateProperties(block.Properties); err != nil {
		return err
	}
	if !block.Type.CanHaveContent() && block.Content != "" {
		return fmt.Errorf("%w: %s blocks cannot hold content", domain.ErrInvalidInput, block.Type)
	}
	if p.BlockIndex(block.ID) >= 0 {
		return fmt.Errorf("block %s: %w", block.ID, domain.ErrAlreadyExists)
	}
	return nil
}
