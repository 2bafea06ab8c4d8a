package file

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// SweepOrphans lists bucket objects under the upload prefixes that no files row points to
// and deletes them unless dryRun is set. The orphan names are returned either way.
func SweepOrphans(ctx context.Context, db *gorm.DB, storage StorageClient, dryRun bool) ([]string, error) {
	var referenced []string
	if err := db.WithContext(ctx).Model(&model.File{}).
		Where("storage_object_name IS NOT NULL").
		Pluck("storage_object_name", &referenced).Error; err != nil {
		return nil, fmt.Errorf("failed to list stored files: %w", err)
	}
	known := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		known[name] = struct{}{}
	}

	var orphans []string
	for _, prefix := range []string{DocumentObjectPrefix, LogoObjectPrefix} {
		names, err := storage.ListObjects(ctx, prefix+"/")
		if err != nil {
			return nil, fmt.Errorf("failed to list %s objects: %w", prefix, err)
		}
		for _, name := range names {
			if _, ok := known[name]; !ok {
				orphans = append(orphans, name)
			}
		}
	}

	if dryRun {
		return orphans, nil
	}
	for _, name := range orphans {
		if err := storage.DeleteFile(ctx, name); err != nil {
			return orphans, fmt.Errorf("failed to delete %s: %w", name, err)
		}
		log.Printf("Deleted orphaned object %s", name)
	}
	return orphans, nil
}
