package dto

// ListResponse is the envelope for paginated collections.
type ListResponse[T any] struct {
	Items    []T   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// MessageResponse is returned by endpoints with nothing else to say.
type MessageResponse struct {
	Message string `json:"message"`
}

// FieldSet records which JSON keys were present in a request body, so that a
// PATCH can tell an omitted field from an explicit null.
type FieldSet map[string]bool

func (f FieldSet) Has(key string) bool { return f[key] }

func (f FieldSet) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	return keys
}
