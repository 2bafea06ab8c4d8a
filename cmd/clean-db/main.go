// Command clean-db removes bucket objects that no file row references.
// With -drop it instead drops every table of the configured database.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/config"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/controller/file"
	"github.com/webmaster254/alx-project-nexus-sub000/internal/database"
)

const dropPostgres = `
DO $$
	DECLARE
		r RECORD;
	BEGIN
		FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
			EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
		END LOOP;
	END $$;
`

func confirm(question string) bool {
	fmt.Printf("%s (yes/no): ", question)
	input, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}
	return strings.TrimSpace(strings.ToLower(input)) == "yes"
}

func dropTables(db *database.DBinstanceStruct) error {
	if db.Config.Driver == database.DriverPostgres {
		return db.Exec(dropPostgres).Error
	}
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return err
	}
	if err := db.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
		return err
	}
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop %s: %w", table, err)
		}
	}
	return nil
}

func main() {
	drop := flag.Bool("drop", false, "drop all tables instead of sweeping storage")
	dryRun := flag.Bool("dry-run", false, "only list orphaned objects")
	flag.Parse()

	cfg := config.LoadServerConfig()
	db, err := database.NewDBInstance(database.ConfigFrom(cfg))
	if err != nil {
		log.Fatalf("Database failed to initialize: %v", err)
	}
	defer db.Close()

	if *drop {
		fmt.Println("WARNING: This command will DROP ALL TABLES of your database.")
		if !confirm("This action is irreversible. Do you want to continue?") {
			fmt.Println("Operation cancelled.")
			return
		}
		if err := dropTables(db); err != nil {
			log.Fatalf("failed to execute drop command: %v", err)
		}
		fmt.Println("All tables dropped successfully.")
		return
	}

	if cfg.GCSBucket == "" {
		log.Fatal("GCS_BUCKET is not set, nothing to sweep")
	}
	ctx := context.Background()
	storage, err := file.NewCloudStorageClient(ctx, cfg.GCSBucket)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}
	defer storage.Close()

	if !*dryRun && !confirm(fmt.Sprintf("Delete unreferenced objects from bucket %s?", cfg.GCSBucket)) {
		fmt.Println("Operation cancelled.")
		return
	}
	orphans, err := file.SweepOrphans(ctx, db.DB, storage, *dryRun)
	if err != nil {
		log.Fatalf("Sweep failed: %v", err)
	}
	for _, name := range orphans {
		fmt.Println(name)
	}
	fmt.Printf("%d orphaned objects found\n", len(orphans))
}
