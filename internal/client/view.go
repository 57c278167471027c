package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prompthub/prompthub/internal/models"
	"github.com/prompthub/prompthub/internal/query"
)

// FormatViews renders a view count the way the feed cards do: 999, 1.2K,
// 123K, 1.5M.
func FormatViews(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 100_000:
		return strconv.FormatInt(n/1_000, 10) + "K"
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	}
	return strconv.FormatInt(n, 10)
}

var ErrToggleInFlight = errors.New("upvote already in flight")

// Upvoter is satisfied by *Client.
type Upvoter interface {
	Upvote(ctx context.Context, id, action string) (int64, error)
}

type upvoteState struct {
	upvoted  bool
	count    int64
	inFlight bool
}

// UpvoteToggle keeps the per-prompt "upvoted this session" flag. The flag and
// the displayed count change only after the server confirms; the count shown
// is always the server's value.
type UpvoteToggle struct {
	api Upvoter

	mu    sync.Mutex
	state map[string]*upvoteState
}

func NewUpvoteToggle(api Upvoter) *UpvoteToggle {
	return &UpvoteToggle{api: api, state: make(map[string]*upvoteState)}
}

func (t *UpvoteToggle) get(id string) *upvoteState {
	s, ok := t.state[id]
	if !ok {
		s = &upvoteState{}
		t.state[id] = s
	}
	return s
}

// Seed sets the displayed count from a fetched prompt without touching the flag.
func (t *UpvoteToggle) Seed(p *models.Prompt) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.get(p.ID).count = p.Upvotes
}

// State returns the displayed count and the local flag for id.
func (t *UpvoteToggle) State(id string) (count int64, upvoted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := t.get(id)
	return s.count, s.upvoted
}

// Toggle sends "remove" when the prompt is flagged as upvoted and "upvote"
// otherwise. On error the previous state is kept.
func (t *UpvoteToggle) Toggle(ctx context.Context, id string) (count int64, upvoted bool, err error) {
	t.mu.Lock()
	s := t.get(id)
	if s.inFlight {
		t.mu.Unlock()
		return s.count, s.upvoted, ErrToggleInFlight
	}
	s.inFlight = true
	action := "upvote"
	if s.upvoted {
		action = "remove"
	}
	t.mu.Unlock()

	n, err := t.api.Upvote(ctx, id, action)

	t.mu.Lock()
	defer t.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return s.count, s.upvoted, err
	}
	s.count = n
	s.upvoted = !s.upvoted
	return s.count, s.upvoted, nil
}

// Debouncer runs only the last function passed to Trigger once the calls
// have been quiet for the configured delay.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending func()
	gen     uint64
	running sync.WaitGroup
}

// DefaultSearchDelay matches the search box debounce.
const DefaultSearchDelay = 300 * time.Millisecond

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = f
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// take returns the pending call if gen is current; gen 0 matches any.
// A returned call is counted in running until the caller marks it done.
func (d *Debouncer) take(gen uint64) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != 0 && gen != d.gen {
		return nil
	}
	f := d.pending
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if f != nil {
		d.running.Add(1)
	}
	return f
}

func (d *Debouncer) fire(gen uint64) {
	if f := d.take(gen); f != nil {
		defer d.running.Done()
		f()
	}
}

// Flush runs a pending call now instead of waiting out the delay, then waits
// for any call already started by the timer. It must not be called from
// inside a triggered function.
func (d *Debouncer) Flush() {
	d.fire(0)
	d.running.Wait()
}

// Stop cancels a pending call. A call already running is not interrupted.
func (d *Debouncer) Stop() {
	if f := d.take(0); f != nil {
		d.running.Done()
	}
}

// FeedSource is satisfied by *Client.
type FeedSource interface {
	ListPrompts(ctx context.Context, userID, filter string) ([]*models.Prompt, error)
}

// Feed is a fetched prompt list searched locally.
type Feed struct {
	prompts []*models.Prompt
}

// LoadFeed fetches the public feed once.
func LoadFeed(ctx context.Context, src FeedSource) (*Feed, error) {
	list, err := src.ListPrompts(ctx, "", "public")
	if err != nil {
		return nil, err
	}
	return &Feed{prompts: list}, nil
}

func (f *Feed) All() []*models.Prompt { return f.prompts }

// Search filters the loaded feed with the query syntax; no network call.
func (f *Feed) Search(raw string) []*models.Prompt {
	return query.Filter(f.prompts, raw)
}
