package llm

import "context"

// InferRequest asks the external inference service for one field's value.
type InferRequest struct {
	Field   string // canonical column name, e.g. "Faculty Name"
	Excerpt string // leading slice of the document text
	Path    string // filename signal
}

// FieldInferencer is the capability the analyzer may or may not have
// configured. Implementations return "unknown" when they cannot tell; callers
// treat that identically to an empty local result.
type FieldInferencer interface {
	InferField(ctx context.Context, req InferRequest) (string, error)
}
