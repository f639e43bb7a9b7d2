// Package postgres indexes the rows of a PostgreSQL query.
//
//	db, err := postgres.Open(ctx, cfg.Connection)
//	defer db.Close()
//
//	cfg.Query = `SELECT path AS key, 'docs' AS collection, body AS text FROM documents`
//	src := postgres.NewSource(db, cfg, w.Producer(), ingest.TaggedJSON[Document]())
//	summary, err := src.Run(ctx)
package postgres
