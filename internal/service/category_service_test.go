package service

import (
	"context"
	"testing"

	"github.com/DaviAleixo/pollyana3-sub000/internal/catalog"
	"github.com/DaviAleixo/pollyana3-sub000/internal/dto"
	"github.com/DaviAleixo/pollyana3-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Todos(1) ─┬─ Feminino(2) ── Vestidos(3)
//           └─ Masculino(4)
func newCategoryFixture() (CategoryService, *stubCategoryRepo) {
	repo := newStubCategoryRepo(
		rootCategory(),
		model.Category{ID: 2, Name: "Feminino", Slug: "feminino", Visible: true, ParentID: uptr(1)},
		model.Category{ID: 3, Name: "Vestidos", Slug: "vestidos", Visible: true, ParentID: uptr(2)},
		model.Category{ID: 4, Name: "Masculino", Slug: "masculino", Visible: true, ParentID: uptr(1), SortOrder: 1},
	)
	return NewCategoryService(repo, &recordingPublisher{}), repo
}

func boolPtr(b bool) *bool { return &b }

func TestCategoryCreate_DefaultsUnderRoot(t *testing.T) {
	svc, _ := newCategoryFixture()

	resp, err := svc.Create(context.Background(), dto.CreateCategoryRequest{Name: " Acessórios "})
	require.NoError(t, err)
	assert.Equal(t, "Acessórios", resp.Name)
	assert.Equal(t, "acessorios", resp.Slug)
	require.NotNil(t, resp.ParentID)
	assert.Equal(t, model.RootCategoryID, *resp.ParentID)
	assert.Equal(t, 2, resp.SortOrder)
	assert.True(t, resp.Visible)
}

func TestCategoryCreate_UnknownParent(t *testing.T) {
	svc, _ := newCategoryFixture()
	_, err := svc.Create(context.Background(), dto.CreateCategoryRequest{Name: "Bolsas", ParentID: uptr(42)})
	assert.ErrorIs(t, err, ErrParentNotFound)
}

func TestCategoryUpdate_RejectsCycle(t *testing.T) {
	svc, _ := newCategoryFixture()
	_, err := svc.Update(context.Background(), 2, dto.UpdateCategoryRequest{ParentID: uptr(3)})
	assert.ErrorIs(t, err, catalog.ErrCategoryCycle)

	_, err = svc.Update(context.Background(), 2, dto.UpdateCategoryRequest{ParentID: uptr(2)})
	assert.ErrorIs(t, err, catalog.ErrCategoryCycle)
}

func TestCategoryUpdate_RootRules(t *testing.T) {
	svc, _ := newCategoryFixture()

	_, err := svc.Update(context.Background(), 1, dto.UpdateCategoryRequest{Visible: boolPtr(false)})
	assert.ErrorIs(t, err, ErrRootCategoryHidden)

	_, err = svc.Update(context.Background(), 1, dto.UpdateCategoryRequest{ParentID: uptr(4)})
	assert.ErrorIs(t, err, catalog.ErrRootCategory)

	name := "Tudo"
	resp, err := svc.Update(context.Background(), 1, dto.UpdateCategoryRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "tudo", resp.Slug)
}

func TestCategoryUpdate_MoveAppendsToNewSiblings(t *testing.T) {
	svc, _ := newCategoryFixture()
	resp, err := svc.Update(context.Background(), 3, dto.UpdateCategoryRequest{ClearParent: true})
	require.NoError(t, err)
	assert.Equal(t, model.RootCategoryID, *resp.ParentID)
	assert.Equal(t, 2, resp.SortOrder)
}

func TestCategoryUpdate_NotFound(t *testing.T) {
	svc, _ := newCategoryFixture()
	_, err := svc.Update(context.Background(), 77, dto.UpdateCategoryRequest{})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryDelete_ReparentsChildren(t *testing.T) {
	svc, repo := newCategoryFixture()

	require.NoError(t, svc.Delete(context.Background(), 2))
	require.Len(t, repo.deleted, 1)
	assert.Equal(t, []uint{3}, repo.deleted[0].Children)
	assert.Equal(t, model.RootCategoryID, *repo.deleted[0].NewParent)

	moved, err := repo.FindByID(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, model.RootCategoryID, *moved.ParentID)
}

func TestCategoryDelete_RootRefused(t *testing.T) {
	svc, repo := newCategoryFixture()
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), catalog.ErrRootCategory)
	assert.Empty(t, repo.deleted)
}

func TestCategoryDelete_NotFound(t *testing.T) {
	svc, _ := newCategoryFixture()
	assert.ErrorIs(t, svc.Delete(context.Background(), 99), ErrCategoryNotFound)
}

func TestCategoryTree(t *testing.T) {
	svc, _ := newCategoryFixture()
	tree, err := svc.Tree(context.Background())
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Feminino", tree[0].Children[0].Name)
	assert.Equal(t, "Vestidos", tree[0].Children[0].Children[0].Name)
}
