package model

// Box is a face detection in source-image pixel coordinates.
type Box struct {
	X1, Y1, X2, Y2 float64
	Score          float64
}

func (b Box) Area() float64 {
	w := b.X2 - b.X1
	h := b.Y2 - b.Y1
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Article is one web search hit used as verification context.
type Article struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
	Source  string `json:"source"`
}

// Fact is an entry of the trusted-fact vector store.
type Fact struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}
