package panel

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hanzi-archive/curator/internal/api"
	"github.com/hanzi-archive/curator/internal/models"
)

// GroupsAPI is the slice of the backend client the groups panel needs.
type GroupsAPI interface {
	ListGroups(ctx context.Context) ([]models.Group, error)
	CreateGroup(ctx context.Context, req api.GroupRequest) (*models.Group, error)
	UpdateGroup(ctx context.Context, id string, req api.GroupRequest) (*models.Group, error)
	DeleteGroup(ctx context.Context, id string) error
}

// GroupNode is one node of the reconstructed group tree.
type GroupNode struct {
	models.Group
	Children []*GroupNode
}

// Groups is the work-group management panel.
type Groups struct {
	api     GroupsAPI
	confirm Confirmer

	mu     sync.RWMutex
	groups []models.Group
	gate   busyGate
}

func NewGroups(api GroupsAPI, confirm Confirmer) *Groups {
	return &Groups{api: api, confirm: confirm}
}

// FetchAll replaces the local collection on success and leaves it untouched
// on any failure.
func (p *Groups) FetchAll(ctx context.Context) error {
	groups, err := p.api.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch groups: %w", err)
	}

	p.mu.Lock()
	p.groups = groups
	p.mu.Unlock()
	return nil
}

// Create adds a group. A parent that would close a cycle is rejected before
// any request goes out; a parent id the server does not know is the server's
// problem to refuse.
func (p *Groups) Create(ctx context.Context, req api.GroupRequest) (*models.Group, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrValidation)
	}

	if !p.gate.acquire() {
		return nil, ErrBusy
	}
	defer p.gate.release()

	group, err := p.api.CreateGroup(ctx, req)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.groups = append(p.groups, *group)
	p.mu.Unlock()
	return group, nil
}

// Update replaces a group's fields. Re-parenting is checked for cycles
// against the local snapshot first.
func (p *Groups) Update(ctx context.Context, id string, req api.GroupRequest) (*models.Group, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrValidation)
	}
	if err := p.checkCycle(id, req.ParentID); err != nil {
		return nil, err
	}

	if !p.gate.acquire() {
		return nil, ErrBusy
	}
	defer p.gate.release()

	group, err := p.api.UpdateGroup(ctx, id, req)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	for i := range p.groups {
		if p.groups[i].ID == id {
			p.groups[i] = *group
			break
		}
	}
	p.mu.Unlock()
	return group, nil
}

// Delete removes one group after confirmation.
func (p *Groups) Delete(ctx context.Context, id string) error {
	if !p.gate.acquire() {
		return ErrBusy
	}
	defer p.gate.release()

	if !p.confirm.Confirm(fmt.Sprintf("Delete group %s?", id)) {
		return ErrNotConfirmed
	}

	if err := p.api.DeleteGroup(ctx, id); err != nil {
		return err
	}

	p.mu.Lock()
	kept := p.groups[:0]
	for _, g := range p.groups {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	p.groups = kept
	p.mu.Unlock()
	return nil
}

// checkCycle walks the parent chain that would exist after giving group id
// the parent newParent. The walk is bounded by the group count, so an
// existing malformed chain cannot spin forever.
func (p *Groups) checkCycle(id, newParent string) error {
	if newParent == "" {
		return nil
	}
	if newParent == id {
		return ErrParentCycle
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	byID := make(map[string]models.Group, len(p.groups))
	for _, g := range p.groups {
		byID[g.ID] = g
	}

	current := newParent
	for range p.groups {
		g, ok := byID[current]
		if !ok || g.ParentID == "" {
			return nil
		}
		if g.ParentID == id {
			return ErrParentCycle
		}
		current = g.ParentID
	}
	return nil
}

// Tree reconstructs the group tree from the flat snapshot. A group whose
// parent id is absent or unresolvable becomes a root rather than being
// dropped. Siblings are ordered by name for stable output.
func (p *Groups) Tree() []*GroupNode {
	p.mu.RLock()
	defer p.mu.RUnlock()

	nodes := make(map[string]*GroupNode, len(p.groups))
	for _, g := range p.groups {
		nodes[g.ID] = &GroupNode{Group: g}
	}

	var roots []*GroupNode
	for _, g := range p.groups {
		node := nodes[g.ID]
		if g.ParentID == "" {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[g.ParentID]
		if !ok {
			// dangling parent reference
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*GroupNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Name < nodes[j].Name })
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// Items returns a copy of the flat collection.
func (p *Groups) Items() []models.Group {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]models.Group, len(p.groups))
	copy(out, p.groups)
	return out
}

// Busy reports whether a mutation is in flight.
func (p *Groups) Busy() bool { return p.gate.Busy() }
