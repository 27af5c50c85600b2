package rag

// Source describes one retrieved chunk that grounded an answer.
type Source struct {
	// Filename is the source document path relative to the corpus root.
	Filename string `json:"filename"`
	// Title is the source document title.
	Title string `json:"title,omitempty"`
	// Similarity is the cosine similarity between the query and the chunk.
	Similarity float64 `json:"similarity"`
	// Preview is the first 150 characters of the chunk text.
	Preview string `json:"preview"`
}

// Result is the outcome of one query-response cycle.
type Result struct {
	// Answer is the generated answer text.
	Answer string `json:"answer"`
	// Sources lists the retrieved chunks in descending similarity order.
	Sources []Source `json:"sources"`
	// UsingKnowledgebase reports whether retrieval was performed. There is
	// no no-context fallback path, so it is true for every successful answer.
	UsingKnowledgebase bool `json:"using_knowledgebase"`
}
