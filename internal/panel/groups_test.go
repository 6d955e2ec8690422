package panel

import (
	"context"
	"errors"
	"testing"

	"github.com/hanzi-archive/curator/internal/api"
	"github.com/hanzi-archive/curator/internal/models"
)

type fakeGroupsAPI struct {
	groups []models.Group
}

func (f *fakeGroupsAPI) ListGroups(ctx context.Context) ([]models.Group, error) {
	return f.groups, nil
}

func (f *fakeGroupsAPI) CreateGroup(ctx context.Context, req api.GroupRequest) (*models.Group, error) {
	return &models.Group{ID: "g-new", Name: req.Name, Description: req.Description, ParentID: req.ParentID}, nil
}

func (f *fakeGroupsAPI) UpdateGroup(ctx context.Context, id string, req api.GroupRequest) (*models.Group, error) {
	return &models.Group{ID: id, Name: req.Name, Description: req.Description, ParentID: req.ParentID}, nil
}

func (f *fakeGroupsAPI) DeleteGroup(ctx context.Context, id string) error {
	return nil
}

func fetchedGroups(t *testing.T, rows []models.Group) *Groups {
	t.Helper()
	groups := NewGroups(&fakeGroupsAPI{groups: rows}, AlwaysConfirm)
	if err := groups.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	return groups
}

func TestGroupsTree(t *testing.T) {
	groups := fetchedGroups(t, []models.Group{
		{ID: "1", Name: "楷书"},
		{ID: "2", Name: "唐代", ParentID: "1"},
		{ID: "3", Name: "宋代", ParentID: "1"},
		{ID: "4", Name: "行书"},
	})

	roots := groups.Tree()
	if len(roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(roots))
	}
	// sorted by name: 楷书 < 行书 by code point
	if roots[0].Name != "楷书" {
		t.Errorf("first root = %s, want 楷书", roots[0].Name)
	}
	if got := len(roots[0].Children); got != 2 {
		t.Errorf("children of 楷书 = %d, want 2", got)
	}
	if roots[0].Children[0].Name != "唐代" {
		t.Errorf("first child = %s, want 唐代 (sorted)", roots[0].Children[0].Name)
	}
}

func TestGroupsTreeDanglingParentBecomesRoot(t *testing.T) {
	groups := fetchedGroups(t, []models.Group{
		{ID: "1", Name: "a"},
		{ID: "2", Name: "b", ParentID: "1"},
		{ID: "3", Name: "c", ParentID: "99"},
	})

	roots := groups.Tree()
	if len(roots) != 2 {
		t.Fatalf("roots = %d, want 2 (dangling parent must surface as root)", len(roots))
	}

	found := false
	for _, r := range roots {
		if r.ID == "3" {
			found = true
		}
	}
	if !found {
		t.Error("group 3 with unknown parent 99 should be a root, not dropped")
	}
}

func TestGroupsUpdateRejectsCycle(t *testing.T) {
	rows := []models.Group{
		{ID: "1", Name: "a"},
		{ID: "2", Name: "b", ParentID: "1"},
		{ID: "3", Name: "c", ParentID: "2"},
	}

	tests := []struct {
		name      string
		id        string
		parent    string
		wantCycle bool
	}{
		{"self parent", "1", "1", true},
		{"direct child", "1", "2", true},
		{"grandchild", "1", "3", true},
		{"valid reparent", "3", "1", false},
		{"make root", "2", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := fetchedGroups(t, rows)
			_, err := groups.Update(context.Background(), tt.id, api.GroupRequest{Name: "x", ParentID: tt.parent})
			if tt.wantCycle && !errors.Is(err, ErrParentCycle) {
				t.Errorf("Update(%s -> parent %s) = %v, want ErrParentCycle", tt.id, tt.parent, err)
			}
			if !tt.wantCycle && err != nil {
				t.Errorf("Update(%s -> parent %s) = %v, want nil", tt.id, tt.parent, err)
			}
		})
	}
}

func TestGroupsCycleCheckTerminatesOnMalformedChain(t *testing.T) {
	// two groups already pointing at each other; the bounded walk must not spin
	groups := fetchedGroups(t, []models.Group{
		{ID: "1", Name: "a", ParentID: "2"},
		{ID: "2", Name: "b", ParentID: "1"},
	})

	if _, err := groups.Update(context.Background(), "3", api.GroupRequest{Name: "c", ParentID: "1"}); err != nil {
		t.Errorf("Update over malformed chain = %v, want nil", err)
	}
}

func TestGroupsCreateValidation(t *testing.T) {
	groups := NewGroups(&fakeGroupsAPI{}, AlwaysConfirm)
	if _, err := groups.Create(context.Background(), api.GroupRequest{}); !errors.Is(err, ErrValidation) {
		t.Errorf("Create without name = %v, want ErrValidation", err)
	}
}

func TestGroupsUpdateReplacesRow(t *testing.T) {
	groups := fetchedGroups(t, []models.Group{{ID: "1", Name: "old"}})

	if _, err := groups.Update(context.Background(), "1", api.GroupRequest{Name: "new"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got := groups.Items()[0].Name; got != "new" {
		t.Errorf("name after update = %s, want new", got)
	}
}
