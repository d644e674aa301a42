// Package database provides the SQLite connection and schema migrations.
//
// One *DB is opened at process start and shared by every repository. The pool
// is limited to a single connection, so SQLite serialises writes and each
// statement is atomic with respect to concurrent requests. Foreign keys are
// always enabled; account and device deletes cascade through them.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migration files live in the top-level migrations package and are embedded
// into the binary.
package database
