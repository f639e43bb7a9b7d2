// Package minio indexes JSON-lines objects stored in a MinIO or S3 bucket.
//
//	bucket, err := minio.NewClient(ctx, cfg)
//	src := minio.NewSource(bucket, cfg, w.Producer(), ingest.TaggedJSON[Document]())
//	summary, err := src.Run(ctx)
package minio
