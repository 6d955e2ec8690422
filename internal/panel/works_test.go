package panel

import (
	"context"
	"errors"
	"testing"

	"github.com/hanzi-archive/curator/internal/models"
)

type fakeWorksAPI struct {
	works     []models.Work
	listErr   error
	deleteErr error
	deleted   []string
}

func (f *fakeWorksAPI) ListWorks(ctx context.Context) ([]models.Work, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.works, nil
}

func (f *fakeWorksAPI) DeleteWork(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeAnnotationsAPI struct {
	annotations []models.Annotation
	listErr     error
	deleteErr   error
}

func (f *fakeAnnotationsAPI) ListAnnotations(ctx context.Context) ([]models.Annotation, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.annotations, nil
}

func (f *fakeAnnotationsAPI) DeleteAnnotation(ctx context.Context, id string) error {
	return f.deleteErr
}

func TestWorksFetchAll(t *testing.T) {
	api := &fakeWorksAPI{works: []models.Work{{ID: "w1"}, {ID: "w2"}}}
	works := NewWorks(api, AlwaysConfirm, nil)

	if err := works.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if got := len(works.Items()); got != 2 {
		t.Errorf("items = %d, want 2", got)
	}
}

func TestWorksFetchFailureLeavesSnapshot(t *testing.T) {
	api := &fakeWorksAPI{works: []models.Work{{ID: "w1"}}}
	works := NewWorks(api, AlwaysConfirm, nil)
	if err := works.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	api.listErr = errors.New("backend down")
	if err := works.FetchAll(context.Background()); err == nil {
		t.Fatal("FetchAll should fail")
	}
	if got := len(works.Items()); got != 1 {
		t.Errorf("failed fetch must leave the prior snapshot, items = %d, want 1", got)
	}
}

func TestWorksDeleteCascadesAnnotations(t *testing.T) {
	annotationAPI := &fakeAnnotationsAPI{annotations: []models.Annotation{
		{ID: "a1", WorkID: "w1"},
		{ID: "a2", WorkID: "w1"},
		{ID: "a3", WorkID: "w2"},
	}}
	annotations := NewAnnotations(annotationAPI, AlwaysConfirm)
	if err := annotations.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll annotations: %v", err)
	}

	workAPI := &fakeWorksAPI{works: []models.Work{{ID: "w1"}, {ID: "w2"}}}
	works := NewWorks(workAPI, AlwaysConfirm, annotations)
	if err := works.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll works: %v", err)
	}

	if err := works.Delete(context.Background(), "w1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if got := len(works.Items()); got != 1 {
		t.Errorf("works after delete = %d, want 1", got)
	}
	if got := len(annotations.Items()); got != 1 {
		t.Errorf("annotations after cascade = %d, want 1", got)
	}
	if got := annotations.Items()[0].ID; got != "a3" {
		t.Errorf("surviving annotation = %s, want a3", got)
	}
}

func TestWorksDeleteDeclined(t *testing.T) {
	api := &fakeWorksAPI{works: []models.Work{{ID: "w1"}}}
	decline := ConfirmerFunc(func(string) bool { return false })
	works := NewWorks(api, decline, nil)
	if err := works.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if err := works.Delete(context.Background(), "w1"); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("Delete = %v, want ErrNotConfirmed", err)
	}
	if len(api.deleted) != 0 {
		t.Error("declined delete must not reach the API")
	}
	if got := len(works.Items()); got != 1 {
		t.Errorf("declined delete must not touch state, items = %d, want 1", got)
	}
}

func TestWorksDeleteFailureLeavesSnapshot(t *testing.T) {
	api := &fakeWorksAPI{
		works:     []models.Work{{ID: "w1"}},
		deleteErr: errors.New("server error"),
	}
	works := NewWorks(api, AlwaysConfirm, nil)
	if err := works.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	if err := works.Delete(context.Background(), "w1"); err == nil {
		t.Fatal("Delete should fail")
	}
	if got := len(works.Items()); got != 1 {
		t.Errorf("failed delete must leave the snapshot, items = %d, want 1", got)
	}
}
