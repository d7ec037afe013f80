package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/cloudtask-api/internal/domain"
)

func TestProjectServiceList(t *testing.T) {
	ctx := context.Background()

	admin := adminActor()
	owner := userActor()
	other := userActor()

	projects := newFakeProjectStore()
	ownerProject := mustProject(owner, "Owner project")
	otherProject := mustProject(other, "Other project")
	projects.put(ownerProject)
	projects.put(otherProject)

	svc := NewProjectService(projects, nil)

	t.Run("admin sees every project", func(t *testing.T) {
		got, err := svc.List(ctx, admin, 0, 50)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("user sees only owned projects", func(t *testing.T) {
		got, err := svc.List(ctx, owner, 0, 50)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ownerProject.ID, got[0].ID)
	})

	t.Run("user owning nothing gets empty result, not an error", func(t *testing.T) {
		stranger := userActor()
		got, err := svc.List(ctx, stranger, 0, 50)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("pagination applies after filtering", func(t *testing.T) {
		got, err := svc.List(ctx, admin, 1, 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestProjectServiceCreate(t *testing.T) {
	ctx := context.Background()
	owner := userActor()
	projects := newFakeProjectStore()
	svc := NewProjectService(projects, nil)

	created, err := svc.Create(ctx, owner, "New project", "desc")
	require.NoError(t, err)
	assert.Equal(t, owner.ID, created.OwnerID)

	// Create/read round-trip
	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "New project", got.Title)

	t.Run("empty title is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, owner, "", "desc")
		assert.Error(t, err)
	})
}

func TestProjectServiceGet(t *testing.T) {
	ctx := context.Background()

	admin := adminActor()
	owner := userActor()
	other := userActor()

	projects := newFakeProjectStore()
	project := mustProject(owner, "Owner project")
	projects.put(project)

	svc := NewProjectService(projects, nil)

	t.Run("owner reads own project", func(t *testing.T) {
		got, err := svc.Get(ctx, owner, project.ID)
		require.NoError(t, err)
		assert.Equal(t, project.ID, got.ID)
	})

	t.Run("admin reads any project", func(t *testing.T) {
		got, err := svc.Get(ctx, admin, project.ID)
		require.NoError(t, err)
		assert.Equal(t, project.ID, got.ID)
	})

	t.Run("non-owner is forbidden, not not-found", func(t *testing.T) {
		_, err := svc.Get(ctx, other, project.ID)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NotErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("absent ID is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, owner, uuid.New())
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})
}

func TestProjectServiceUpdate(t *testing.T) {
	ctx := context.Background()

	owner := userActor()
	other := userActor()

	projects := newFakeProjectStore()
	project := mustProject(owner, "Before")
	projects.put(project)

	svc := NewProjectService(projects, nil)

	t.Run("patch updates only present fields", func(t *testing.T) {
		title := "After"
		updated, err := svc.Update(ctx, owner, project.ID, &domain.ProjectPatch{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "After", updated.Title)
		assert.Equal(t, project.Description, updated.Description)
		assert.Equal(t, owner.ID, updated.OwnerID)
	})

	t.Run("non-owner cannot update", func(t *testing.T) {
		title := "Hijacked"
		_, err := svc.Update(ctx, other, project.ID, &domain.ProjectPatch{Title: &title})
		assert.ErrorIs(t, err, ErrForbidden)

		got, err := svc.Get(ctx, owner, project.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "Hijacked", got.Title)
	})

	t.Run("absent ID is not found", func(t *testing.T) {
		title := "x"
		_, err := svc.Update(ctx, owner, uuid.New(), &domain.ProjectPatch{Title: &title})
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})
}

func TestProjectServiceDelete(t *testing.T) {
	ctx := context.Background()

	owner := userActor()
	other := userActor()

	projects := newFakeProjectStore()
	project := mustProject(owner, "Doomed")
	projects.put(project)

	svc := NewProjectService(projects, nil)

	t.Run("non-owner cannot delete", func(t *testing.T) {
		err := svc.Delete(ctx, other, project.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner deletes, second delete is not found", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, owner, project.ID))

		err := svc.Delete(ctx, owner, project.ID)
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})
}
