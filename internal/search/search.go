// Package search is the stateless article-search side of the client.
// Unlike the conversation session it has no cross-call state to
// protect, so searches are not serialized: overlapping calls race and
// the one initiated last wins. A failed search leaves the previous
// results in place.
package search

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"lawcheck/internal/api"
)

// Searcher is the one backend call this client needs; satisfied by
// *api.Client.
type Searcher interface {
	SearchArticles(ctx context.Context, keyword string) ([]api.Article, error)
}

// Client holds the current result set for the articles view.
type Client struct {
	searcher Searcher
	log      *zap.Logger

	mu      sync.Mutex
	results []api.Article
	seq     uint64 // sequence of the most recently initiated search
	inFlight int
}

// New creates an empty search client.
func New(searcher Searcher, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{searcher: searcher, log: log}
}

// Search runs one keyword search. An empty keyword is a no-op. The
// result set is replaced wholesale on success; on failure, or when a
// newer search was initiated while this one was in flight, the current
// results are left untouched.
func (c *Client) Search(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.inFlight++
	c.mu.Unlock()

	results, err := c.searcher.SearchArticles(ctx, keyword)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight--

	if err != nil {
		c.log.Warn("article search failed", zap.String("keyword", keyword), zap.Error(err))
		return err
	}
	if seq != c.seq {
		// Superseded by a later search; drop this response.
		c.log.Debug("dropping stale search response", zap.String("keyword", keyword))
		return nil
	}
	c.results = results
	return nil
}

// Pending reports whether any search is in flight.
func (c *Client) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight > 0
}

// Results returns a copy of the current result set.
func (c *Client) Results() []api.Article {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]api.Article, len(c.results))
	copy(out, c.results)
	return out
}
