// Package database opens the SQLite file that holds the show journal and
// applies its schema migrations.
//
// The connection runs in WAL mode with a single writer. Migrations are
// plain SQL files named YYYYMMDD_HHMMSS_description.{up,down}.sql, read
// from MigrationsFS (the migrations package registers its embedded files
// there on import).
//
//	db, err := database.Open(database.FromConfig(cfg.Database))
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// Migrations are additive: new columns are nullable or defaulted.
package database
