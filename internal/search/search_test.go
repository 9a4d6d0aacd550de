package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/topicserve/internal/dataset"
)

func fixtureDoc(t *testing.T) *dataset.Document {
	t.Helper()
	doc, err := dataset.Decode(strings.NewReader(`{
	  "title": "Math",
	  "topics": [{
	    "id": "T1",
	    "title": "Algebra",
	    "content": [{"subtitle": "Linear Equations", "body": "solve for x"}],
	    "quiz": [{"question": "What is x?", "choices": ["1", "2"]}]
	  }]
	}`))
	require.NoError(t, err)
	return doc
}

func TestSearch_FixtureScenario(t *testing.T) {
	doc := fixtureDoc(t)

	tests := []struct {
		query    string
		wantSite dataset.MatchSite
		wantText string
	}{
		{"linear", dataset.SiteSubtitle, "Linear Equations"},
		{"algebra", dataset.SiteTitle, "Algebra"},
		{"x", dataset.SiteContentBlock, ""},
		{"  ALGEBRA  ", dataset.SiteTitle, "Algebra"},
	}
	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			got := Search(doc, tc.query)
			require.Len(t, got, 1)
			assert.Equal(t, "T1", got[0].TopicID)
			assert.Equal(t, "Algebra", got[0].TopicTitle)
			assert.Equal(t, tc.wantSite, got[0].Site)
			assert.Equal(t, tc.wantText, got[0].Text)
		})
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	doc := fixtureDoc(t)
	for _, q := range []string{"", "   ", "\t\n"} {
		got := Search(doc, q)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestSearch_NilDocument(t *testing.T) {
	assert.Empty(t, Search(nil, "anything"))
}

func TestSearch_NoMatch(t *testing.T) {
	assert.Empty(t, Search(fixtureDoc(t), "geometry"))
}

func TestSearch_PriorityOrder(t *testing.T) {
	// Every topic contains "needle" in progressively lower-priority fields.
	doc := &dataset.Document{Title: "P", Topics: []dataset.Topic{
		{
			ID: "title", Title: "Needle title",
			Content: []dataset.ContentBlock{{"subtitle": "needle"}},
			Quiz:    []dataset.QuizItem{{Question: "needle?"}},
		},
		{
			ID: "subtitle", Title: "t",
			Content: []dataset.ContentBlock{
				{"body": "needle in body"},
				{"subtitle": "Needle Sub"},
			},
		},
		{
			ID: "block", Title: "t",
			Content: []dataset.ContentBlock{{"subtitle": "other", "body": "a NEEDLE"}},
			Quiz:    []dataset.QuizItem{{Question: "needle?"}},
		},
		{
			ID: "question", Title: "t",
			Content: []dataset.ContentBlock{{"body": "hay"}},
			Quiz:    []dataset.QuizItem{{Question: "Where is the needle?", Choices: []string{"needle"}}},
		},
		{
			ID: "choice", Title: "t",
			Quiz: []dataset.QuizItem{
				{Question: "Pick one", Choices: []string{"hay", "the Needle", "needle again"}},
			},
		},
	}}

	got := Search(doc, "needle")
	require.Len(t, got, 5)

	want := []struct {
		id   string
		site dataset.MatchSite
		text string
	}{
		{"title", dataset.SiteTitle, "Needle title"},
		// The first block has no subtitle but its body matches, so it wins
		// before the second block's subtitle is ever seen.
		{"subtitle", dataset.SiteContentBlock, ""},
		{"block", dataset.SiteContentBlock, ""},
		{"question", dataset.SiteQuizQuestion, "Where is the needle?"},
		{"choice", dataset.SiteQuizChoice, "the Needle"},
	}
	for i, w := range want {
		assert.Equal(t, w.id, got[i].TopicID, "result %d", i)
		assert.Equal(t, w.site, got[i].Site, "result %d", i)
		assert.Equal(t, w.text, got[i].Text, "result %d", i)
	}
}

func TestSearch_SubtitleBeatsBodyInSameBlock(t *testing.T) {
	doc := &dataset.Document{Title: "P", Topics: []dataset.Topic{{
		ID: "T", Title: "t",
		Content: []dataset.ContentBlock{{"subtitle": "Needle", "body": "needle"}},
	}}}
	got := Search(doc, "needle")
	require.Len(t, got, 1)
	assert.Equal(t, dataset.SiteSubtitle, got[0].Site)
	assert.Equal(t, "Needle", got[0].Text)
}

func TestSearch_OnePerTopic(t *testing.T) {
	doc := &dataset.Document{Title: "P", Topics: []dataset.Topic{{
		ID: "T", Title: "t",
		Quiz: []dataset.QuizItem{
			{Question: "q1", Choices: []string{"needle a"}},
			{Question: "needle q2"},
			{Question: "q3", Choices: []string{"needle b"}},
		},
	}}}
	got := Search(doc, "needle")
	require.Len(t, got, 1)
	assert.Equal(t, dataset.SiteQuizChoice, got[0].Site)
	assert.Equal(t, "needle a", got[0].Text)
}

func TestSearch_NestedBlockValues(t *testing.T) {
	doc := &dataset.Document{Title: "P", Topics: []dataset.Topic{{
		ID: "T", Title: "t",
		Content: []dataset.ContentBlock{{
			"points": []any{
				map[string]any{"label": "first", "detail": map[string]any{"note": "Deeply Hidden"}},
			},
		}},
	}}}
	got := Search(doc, "deeply hidden")
	require.Len(t, got, 1)
	assert.Equal(t, dataset.SiteContentBlock, got[0].Site)
}

func TestSearch_KeysAreNotSearched(t *testing.T) {
	doc := &dataset.Document{Title: "P", Topics: []dataset.Topic{{
		ID: "T", Title: "t",
		Content: []dataset.ContentBlock{{"paragraph": "text"}},
	}}}
	assert.Empty(t, Search(doc, "paragraph"))
}

func TestSearch_TitleHitRegardlessOfDeeperHits(t *testing.T) {
	doc := &dataset.Document{Title: "P", Topics: []dataset.Topic{
		{ID: "A", Title: "Fractions", Quiz: []dataset.QuizItem{{Question: "fractions?"}}},
		{ID: "B", Title: "Decimals"},
		{ID: "C", Title: "More Fractions", Content: []dataset.ContentBlock{{"subtitle": "fractions"}}},
	}}
	got := Search(doc, "FRACTIONS")
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, dataset.SiteTitle, r.Site)
	}
	assert.Equal(t, "A", got[0].TopicID)
	assert.Equal(t, "C", got[1].TopicID)
}

func TestSearch_MissingContentAndQuiz(t *testing.T) {
	doc := &dataset.Document{Title: "P", Topics: []dataset.Topic{{ID: "T", Title: "t"}}}
	assert.Empty(t, Search(doc, "x"))
}

func TestNormalizeQuery(t *testing.T) {
	assert.Equal(t, "linear", NormalizeQuery("  LiNeAr \n"))
	assert.Equal(t, "", NormalizeQuery("   "))
}
