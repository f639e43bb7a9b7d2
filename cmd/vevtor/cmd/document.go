package cmd

// Document is the record type the CLI indexes. Key is hashed into the
// point id, so "vevtor delete --key" finds it again.
type Document struct {
	Key        string         `json:"key" vevtor:"id"`
	Collection string         `json:"collection" vevtor:"collection"`
	Text       string         `json:"text" vevtor:"embed"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}
