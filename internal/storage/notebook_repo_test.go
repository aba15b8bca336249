package storage

import (
	"context"
	"errors"
	"testing"

	"notebase/internal/apperr"
)

func testNotebookRepos(t *testing.T) (*NotebookRepo, *ItemRepo) {
	t.Helper()
	items := testDB(t)
	return NewNotebookRepo(items.db), items
}

func TestNotebookRepo_CreateAndGet(t *testing.T) {
	repo, _ := testNotebookRepos(t)
	ctx := context.Background()

	notebook := &Notebook{Title: "Research", Notes: "# Scope\nDistributed systems."}
	if err := repo.Create(ctx, notebook); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if notebook.ID == 0 {
		t.Fatal("Create() did not assign an id")
	}

	got, err := repo.GetByID(ctx, notebook.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != notebook.Title || got.Notes != notebook.Notes {
		t.Errorf("GetByID() = %q/%q, want %q/%q", got.Title, got.Notes, notebook.Title, notebook.Notes)
	}

	if _, err := repo.GetByID(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetByID(999) error = %v, want ErrNotFound", err)
	}
}

func TestNotebookRepo_Update(t *testing.T) {
	repo, _ := testNotebookRepos(t)
	ctx := context.Background()

	notebook := &Notebook{Title: "Before"}
	if err := repo.Create(ctx, notebook); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	notebook.Title = "After"
	notebook.Notes = "updated"
	if err := repo.Update(ctx, notebook); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := repo.GetByID(ctx, notebook.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Title != "After" || got.Notes != "updated" {
		t.Errorf("Update() persisted %q/%q, want After/updated", got.Title, got.Notes)
	}

	if err := repo.Update(ctx, &Notebook{ID: 999, Title: "x"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Update(999) error = %v, want ErrNotFound", err)
	}
}

func TestNotebookRepo_Membership(t *testing.T) {
	repo, items := testNotebookRepos(t)
	ctx := context.Background()

	notebook := &Notebook{Title: "Go"}
	if err := repo.Create(ctx, notebook); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	item := &Item{Title: "t", Content: "c", Origin: OriginInline}
	if err := items.Insert(ctx, item); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	before, err := repo.GetByID(ctx, notebook.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if err := repo.AddItem(ctx, notebook.ID, item.ID); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	after, err := repo.GetByID(ctx, notebook.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !after.UpdatedAt.After(before.UpdatedAt) {
		t.Errorf("AddItem() did not advance UpdatedAt: before %v, after %v", before.UpdatedAt, after.UpdatedAt)
	}

	// Re-adding a member is a no-op for membership but still touches.
	if err := repo.AddItem(ctx, notebook.ID, item.ID); err != nil {
		t.Fatalf("AddItem() twice error = %v", err)
	}
	ids, err := repo.MemberIDs(ctx, notebook.ID)
	if err != nil {
		t.Fatalf("MemberIDs() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != item.ID {
		t.Fatalf("MemberIDs() = %v, want [%d]", ids, item.ID)
	}

	if err := repo.RemoveItem(ctx, notebook.ID, item.ID); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	removed, err := repo.GetByID(ctx, notebook.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if !removed.UpdatedAt.After(after.UpdatedAt) {
		t.Errorf("RemoveItem() did not advance UpdatedAt")
	}

	if err := repo.RemoveItem(ctx, notebook.ID, item.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("RemoveItem() non-member error = %v, want ErrNotFound", err)
	}
	if err := repo.AddItem(ctx, notebook.ID, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("AddItem() missing item error = %v, want ErrNotFound", err)
	}
}

func TestNotebookRepo_ItemDeleteCascades(t *testing.T) {
	repo, items := testNotebookRepos(t)
	ctx := context.Background()

	notebook := &Notebook{Title: "Go"}
	if err := repo.Create(ctx, notebook); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	item := &Item{Title: "t", Content: "c", Origin: OriginInline}
	if err := items.Insert(ctx, item); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.AddItem(ctx, notebook.ID, item.ID); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	if err := items.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	ids, err := repo.MemberIDs(ctx, notebook.ID)
	if err != nil {
		t.Fatalf("MemberIDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("MemberIDs() after item delete = %v, want empty", ids)
	}
}

func TestNotebookRepo_DeletePreservesItems(t *testing.T) {
	repo, items := testNotebookRepos(t)
	ctx := context.Background()

	notebook := &Notebook{Title: "Go"}
	if err := repo.Create(ctx, notebook); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	item := &Item{Title: "t", Content: "c", Origin: OriginInline}
	if err := items.Insert(ctx, item); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := repo.AddItem(ctx, notebook.ID, item.ID); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	if err := repo.Delete(ctx, notebook.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := repo.GetByID(ctx, notebook.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := items.GetByID(ctx, item.ID); err != nil {
		t.Errorf("item should survive notebook deletion, got error = %v", err)
	}

	if err := repo.Delete(ctx, notebook.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}

func TestNotebookRepo_List(t *testing.T) {
	repo, _ := testNotebookRepos(t)
	ctx := context.Background()

	for _, title := range []string{"one", "two"} {
		if err := repo.Create(ctx, &Notebook{Title: title}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}
	notebooks, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notebooks) != 2 {
		t.Errorf("List() returned %d notebooks, want 2", len(notebooks))
	}
}
