package interfaces

import "context"

// Uploader pushes a locally written artifact to an object store.
// Upload failures are advisory for the pipeline: logged, never fatal.
type Uploader interface {
	Upload(ctx context.Context, localPath string) error
}

// DocumentFetcher retrieves the current compatibility document for serving.
// The cache gate wraps this with TTL-based reuse.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context) ([]byte, error)
}
