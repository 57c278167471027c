package prompts

import (
	"testing"

	"github.com/prompthub/prompthub/internal/models"
	"github.com/stretchr/testify/require"
)

func TestParseVisibility(t *testing.T) {
	cases := map[string]Visibility{
		"":        VisibilityAny,
		"all":     VisibilityAny,
		"public":  VisibilityPublic,
		"PRIVATE": VisibilityPrivate,
	}
	for in, want := range cases {
		got, err := ParseVisibility(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := ParseVisibility("liked")
	require.ErrorIs(t, err, ErrInvalidVisibility)
}

func TestFilterMatches(t *testing.T) {
	pub := &models.Prompt{UserID: "u1", IsPublic: true}
	priv := &models.Prompt{UserID: "u1", IsPublic: false}
	other := &models.Prompt{UserID: "u2", IsPublic: true}

	require.True(t, Filter{}.Matches(pub))
	require.True(t, Filter{}.Matches(priv))

	public := Filter{Visibility: VisibilityPublic}
	require.True(t, public.Matches(pub))
	require.False(t, public.Matches(priv))
	require.True(t, public.Matches(other))

	mine := Filter{UserID: "u1", Visibility: VisibilityPrivate}
	require.False(t, mine.Matches(pub))
	require.True(t, mine.Matches(priv))
	require.False(t, mine.Matches(other))

	require.NotEqual(t, Filter{UserID: "u1"}.Key(), mine.Key())
}
