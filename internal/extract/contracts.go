package extract

import (
	"context"

	"github.com/tharindu-jay/policyscan/internal/record"
)

// DocumentExtractor is the external document-understanding boundary. It takes
// raw PDF bytes and returns the nested four-section extraction.
type DocumentExtractor interface {
	ExtractDocument(ctx context.Context, pdf []byte) (record.RawExtraction, error)
}

// Cache stores mapped records keyed by the hex digest of the document bytes,
// so re-processing identical content never re-invokes the extractor.
type Cache interface {
	Get(ctx context.Context, digest string) (record.FlatRecord, bool, error)
	Put(ctx context.Context, digest string, rec record.FlatRecord) error
}
