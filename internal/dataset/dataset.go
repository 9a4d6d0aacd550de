package dataset

// Document is the root of a loaded dataset.
type Document struct {
	Title  string  `json:"title"`
	Topics []Topic `json:"topics"`
}

// Topic is one educational unit.
type Topic struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Content []ContentBlock `json:"content,omitempty"`
	Quiz    []QuizItem     `json:"quiz,omitempty"`
}

// ContentBlock is a semi-structured content entry. Only "subtitle" has a
// fixed meaning; every other field may hold any JSON shape.
type ContentBlock map[string]any

// QuizItem is a single quiz question with its answer choices.
type QuizItem struct {
	Question string   `json:"question,omitempty"`
	Choices  []string `json:"choices,omitempty"`
}

// Summary is the id/title projection of a topic.
type Summary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// MatchSite names the field category a search hit came from.
type MatchSite string

const (
	SiteTitle        MatchSite = "title"
	SiteSubtitle     MatchSite = "subtitle"
	SiteContentBlock MatchSite = "content-block"
	SiteQuizQuestion MatchSite = "quiz-question"
	SiteQuizChoice   MatchSite = "quiz-choice"
)

// MatchResult is one search hit.
type MatchResult struct {
	TopicID    string    `json:"topicId"`
	TopicTitle string    `json:"topicTitle"`
	Site       MatchSite `json:"matchSite"`
	Text       string    `json:"text,omitempty"` // Matched fragment; empty for content-block hits.
}

// Empty returns the safe default document.
func Empty() *Document {
	return &Document{Title: "", Topics: []Topic{}}
}

// Subtitle returns the block's subtitle when it is a string.
func (b ContentBlock) Subtitle() (string, bool) {
	s, ok := b["subtitle"].(string)
	return s, ok
}

// TopicCount returns the number of topics.
func (d *Document) TopicCount() int {
	if d == nil {
		return 0
	}
	return len(d.Topics)
}

// Summaries projects every topic to its id/title pair in document order.
func (d *Document) Summaries() []Summary {
	out := make([]Summary, 0, d.TopicCount())
	if d == nil {
		return out
	}
	for _, t := range d.Topics {
		out = append(out, Summary{ID: t.ID, Title: t.Title})
	}
	return out
}
