package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

func TestSweepOrphans(t *testing.T) {
	kept := "documents/kept.pdf"
	file := model.File{StorageObjectName: &kept, Extension: ".pdf"}
	require.NoError(t, testDB.Create(&file).Error)
	t.Cleanup(func() { testDB.Delete(&file) })

	storage := newMockStorageClient(
		kept, "kept",
		"documents/lost.pdf", "lost",
		"logos/lost.png", "logo",
		"elsewhere/untouched.txt", "other",
	)
	ctx := context.Background()

	orphans, err := SweepOrphans(ctx, testDB.DB, storage, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"documents/lost.pdf", "logos/lost.png"}, orphans)
	assert.NotNil(t, storage.object("documents/lost.pdf"), "dry run keeps objects")

	orphans, err = SweepOrphans(ctx, testDB.DB, storage, false)
	require.NoError(t, err)
	assert.Len(t, orphans, 2)
	assert.Nil(t, storage.object("documents/lost.pdf"))
	assert.Nil(t, storage.object("logos/lost.png"))
	assert.NotNil(t, storage.object(kept))
	assert.NotNil(t, storage.object("elsewhere/untouched.txt"))

	orphans, err = SweepOrphans(ctx, testDB.DB, storage, false)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}
