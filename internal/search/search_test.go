package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"lawcheck/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeSearcher scripts SearchArticles outcomes per keyword.
type fakeSearcher struct {
	mu      sync.Mutex
	calls   []string
	respond func(keyword string) ([]api.Article, error)
	gates   map[string]chan struct{} // optional per-keyword gate
}

func (f *fakeSearcher) SearchArticles(ctx context.Context, keyword string) ([]api.Article, error) {
	f.mu.Lock()
	f.calls = append(f.calls, keyword)
	gate := f.gates[keyword]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.respond(keyword)
}

func articles(names ...string) []api.Article {
	out := make([]api.Article, 0, len(names))
	for _, n := range names {
		out = append(out, api.Article{LawName: n, ArticleNumber: "제1조", Content: "내용"})
	}
	return out
}

func TestSearch_EmptyKeywordIsNoOp(t *testing.T) {
	t.Parallel()

	f := &fakeSearcher{respond: func(string) ([]api.Article, error) { return articles("근로기준법"), nil }}
	c := New(f, nil)

	require.NoError(t, c.Search(context.Background(), "   "))
	assert.Empty(t, f.calls, "no request issued")
	assert.Empty(t, c.Results())
	assert.False(t, c.Pending())
}

func TestSearch_ReplacesResultsWholesale(t *testing.T) {
	t.Parallel()

	f := &fakeSearcher{respond: func(keyword string) ([]api.Article, error) {
		if keyword == "해고" {
			return articles("근로기준법", "근로기준법"), nil
		}
		return articles("주택임대차보호법"), nil
	}}
	c := New(f, nil)

	require.NoError(t, c.Search(context.Background(), "해고"))
	assert.Len(t, c.Results(), 2)

	require.NoError(t, c.Search(context.Background(), "임대차"))
	results := c.Results()
	require.Len(t, results, 1, "prior results are replaced, not merged")
	assert.Equal(t, "주택임대차보호법", results[0].LawName)
}

func TestSearch_FailureKeepsPriorResults(t *testing.T) {
	t.Parallel()

	fail := false
	f := &fakeSearcher{respond: func(keyword string) ([]api.Article, error) {
		if fail {
			return nil, errors.New("connection refused")
		}
		return articles("근로기준법"), nil
	}}
	c := New(f, nil)

	require.NoError(t, c.Search(context.Background(), "해고"))
	require.Len(t, c.Results(), 1)

	fail = true
	err := c.Search(context.Background(), "임대차")
	require.Error(t, err)
	assert.Len(t, c.Results(), 1, "failed search leaves prior results intact")
	assert.False(t, c.Pending())
}

func TestSearch_LastInitiatedWins(t *testing.T) {
	t.Parallel()

	slowGate := make(chan struct{})
	f := &fakeSearcher{
		gates: map[string]chan struct{}{"느린검색": slowGate},
		respond: func(keyword string) ([]api.Article, error) {
			if keyword == "느린검색" {
				return articles("오래된 결과"), nil
			}
			return articles("최신 결과"), nil
		},
	}
	c := New(f, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Search(context.Background(), "느린검색")
	}()

	require.Eventually(t, c.Pending, time.Second, time.Millisecond)

	// A newer search completes first.
	require.NoError(t, c.Search(context.Background(), "빠른검색"))
	results := c.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "최신 결과", results[0].LawName)

	// The superseded search settles afterwards and is dropped.
	close(slowGate)
	<-done

	results = c.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "최신 결과", results[0].LawName, "stale response must not clobber the newest results")
	assert.False(t, c.Pending())
}

func TestResults_ReturnsCopy(t *testing.T) {
	t.Parallel()

	f := &fakeSearcher{respond: func(string) ([]api.Article, error) { return articles("근로기준법"), nil }}
	c := New(f, nil)
	require.NoError(t, c.Search(context.Background(), "해고"))

	got := c.Results()
	got[0].LawName = "변조"
	assert.Equal(t, "근로기준법", c.Results()[0].LawName)
}
