package query

import (
	"strings"
	"testing"

	"github.com/prompthub/prompthub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() []*models.Prompt {
	return []*models.Prompt{
		{ID: "1", Title: "Cover letter", Content: "Draft a cover letter", Author: "Alice Smith", Tags: []string{"Writing", "career"}, Category: "Career"},
		{ID: "2", Title: "SQL tutor", Content: "Explain joins", Author: "Bob", Tags: []string{"sql", "teaching"}, Category: "Education"},
		{ID: "3", Title: "Poem", Content: "Write a poem about [writing]", Author: "", Username: "malice", Tags: []string{"creative-writing"}, Category: "Writing"},
		{ID: "4", Title: "Refactor", Content: "user:alice style review", Author: "Carol", Tags: nil, Category: "writing tools"},
	}
}

func ids(list []*models.Prompt) []string {
	out := []string{}
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	list := fixture()
	cases := []struct {
		query string
		rule  string
		want  []string
	}{
		{"[writing]", "tag", []string{"1", "3"}},
		{"[WRITING]", "tag", []string{"1", "3"}},
		{"  [sql]  ", "tag", []string{"2"}},
		{"user:alice", "user", []string{"1"}},
		{"user: bob", "user", []string{"2"}},
		{`collective:"writing"`, "collective", []string{"3"}},
		{`collective:"Career"`, "collective", []string{"1"}},
		{`"cover letter"`, "phrase", []string{"1"}},
		{`"alice"`, "phrase", []string{"4"}},
		{"joins", "text", []string{"2"}},
		{"teaching", "text", []string{"2"}},
		{"alice", "text", []string{"1", "4"}},
		{`"`, "text", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.rule, Parse(tc.query).Rule)
			assert.Equal(t, tc.want, ids(Filter(list, tc.query)))
		})
	}
}

func TestFilter_TagQueryMatchesExactlyTaggedSubsequence(t *testing.T) {
	list := fixture()
	var want []string
	for _, p := range list {
		for _, tag := range p.Tags {
			if strings.Contains(strings.ToLower(tag), "writing") {
				want = append(want, p.ID)
				break
			}
		}
	}
	// "[writing]" also appears in prompt 3's content; only tags count
	assert.Equal(t, want, ids(Filter(list, "[writing]")))
}

func TestFilter_BlankQueryReturnsInput(t *testing.T) {
	list := fixture()
	for _, q := range []string{"", "   ", "\t"} {
		got := Filter(list, q)
		require.Len(t, got, len(list))
		for i := range list {
			assert.Same(t, list[i], got[i])
		}
		assert.Empty(t, Parse(q).Rule)
	}
}

func TestFilter_IsPure(t *testing.T) {
	list := fixture()
	first := ids(Filter(list, "writing"))
	second := ids(Filter(list, "writing"))
	assert.Equal(t, first, second)
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(list))
}

func TestPrecedence(t *testing.T) {
	// each query is syntactically valid for several rules; the earliest wins
	cases := map[string]string{
		`[user:x]`:            "tag",
		`user:"quoted"`:       "user",
		`collective:"a"`:      "collective",
		`"[not a tag"`:        "phrase",
		`[unterminated`:       "text",
		`collective:"missing`: "text",
	}
	for q, want := range cases {
		assert.Equal(t, want, Parse(q).Rule, q)
	}
}

func TestRulesInIsolation(t *testing.T) {
	p := &models.Prompt{Title: "T", Content: "C", Author: "Dana", Tags: []string{"ops"}, Category: "Infra"}
	for _, r := range Rules {
		switch r.Name {
		case "tag":
			m, ok := r.Parse("[op]")
			require.True(t, ok)
			assert.True(t, m(p))
			_, ok = r.Parse("op")
			assert.False(t, ok)
		case "user":
			m, ok := r.Parse("user:dan")
			require.True(t, ok)
			assert.True(t, m(p))
		case "collective":
			m, ok := r.Parse(`collective:"infra"`)
			require.True(t, ok)
			assert.True(t, m(p))
			m, _ = r.Parse(`collective:"inf"`)
			assert.False(t, m(p))
		case "phrase":
			_, ok := r.Parse("c")
			assert.False(t, ok)
		case "text":
			_, ok := r.Parse("anything at all")
			assert.True(t, ok)
		}
	}
	assert.Equal(t, "text", Rules[len(Rules)-1].Name)
}

func TestFilter_UserRuleMatchesAuthorOnly(t *testing.T) {
	list := []*models.Prompt{
		{ID: "a", Author: "", Username: "alice"},
		{ID: "b", Author: "Bob"},
		{ID: "c", Author: "Alice Smith", Username: "someone"},
	}
	got := Filter(list, "user:alice")
	assert.Equal(t, []string{"c"}, ids(got))
	for _, p := range got {
		assert.Contains(t, strings.ToLower(p.Author), "alice")
	}
}
