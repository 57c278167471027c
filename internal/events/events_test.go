package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subj)
	f.payloads = append(f.payloads, data)
	return nil
}

func TestNATSPublisher_Publish(t *testing.T) {
	fc := &fakeConn{}
	p := newPublisher(fc, "test")

	err := p.Publish(context.Background(), Event{Type: PromptUpvoted, PromptID: "p1", Upvotes: 3})
	require.NoError(t, err)
	require.Equal(t, []string{"test.prompt.upvoted"}, fc.subjects)

	var got Event
	require.NoError(t, json.Unmarshal(fc.payloads[0], &got))
	require.Equal(t, PromptUpvoted, got.Type)
	require.Equal(t, "p1", got.PromptID)
	require.EqualValues(t, 3, got.Upvotes)
	require.False(t, got.Timestamp.IsZero(), "timestamp filled in")
}

func TestNATSPublisher_DefaultPrefixAndError(t *testing.T) {
	fc := &fakeConn{err: errors.New("closed")}
	p := newPublisher(fc, "")
	require.Equal(t, "prompthub.prompt.created", p.Subject(PromptCreated))
	require.Error(t, p.Publish(context.Background(), Event{Type: PromptCreated}))
}

func TestNopPublisher(t *testing.T) {
	require.NoError(t, NopPublisher{}.Publish(context.Background(), Event{Type: PromptDeleted}))
}
