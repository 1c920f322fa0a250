// Package tuitest holds helpers for driving terminal components in tests.
package tuitest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/mizunime/mizunime/internal/catalog"
)

// Catalog is an in-memory catalog that records every call
type Catalog struct {
	HomePages   map[int][]catalog.AnimeItem
	SearchPages map[int][]catalog.AnimeItem
	TotalPages  int
	Days        catalog.ScheduleMap
	Err         error

	mu          sync.Mutex
	homeCalls   []int
	searchCalls []string
}

func (c *Catalog) Home(_ context.Context, page int) (*catalog.PagedResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.homeCalls = append(c.homeCalls, page)
	if c.Err != nil {
		return nil, c.Err
	}
	return &catalog.PagedResult{Items: c.HomePages[page], Page: page, Status: "success"}, nil
}

func (c *Catalog) Search(_ context.Context, q string, page int) (*catalog.PagedResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchCalls = append(c.searchCalls, fmt.Sprintf("%s#%d", q, page))
	if c.Err != nil {
		return nil, c.Err
	}
	return &catalog.PagedResult{Items: c.SearchPages[page], Page: page, TotalPages: c.TotalPages, Status: "success"}, nil
}

func (c *Catalog) Schedule(context.Context) (catalog.ScheduleMap, error) {
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Days, nil
}

// HomeCalls returns the requested feed pages in order
func (c *Catalog) HomeCalls() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.homeCalls...)
}

// SearchCalls returns "query#page" for every search, in order
func (c *Catalog) SearchCalls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.searchCalls...)
}

// Items builds n items with slugs prefix-0 .. prefix-(n-1)
func Items(prefix string, n int) []catalog.AnimeItem {
	items := make([]catalog.AnimeItem, n)
	for i := range items {
		slug := fmt.Sprintf("%s-%d", prefix, i)
		items[i] = catalog.AnimeItem{Slug: slug, Title: slug}
	}
	return items
}

var namedKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"esc":       tea.KeyEsc,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"tab":       tea.KeyTab,
	"backspace": tea.KeyBackspace,
	"ctrl+c":    tea.KeyCtrlC,
	"ctrl+l":    tea.KeyCtrlL,
}

// Key builds the key message bubbletea would deliver for s
func Key(s string) tea.KeyMsg {
	if k, ok := namedKeys[s]; ok {
		return tea.KeyMsg{Type: k}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// Exec runs cmd and returns its message. cmd must not be nil.
func Exec(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd, "expected a command")
	return cmd()
}

// After records delayed messages instead of scheduling them
type After struct {
	Msgs []tea.Msg
}

func (a *After) Func(_ time.Duration, msg tea.Msg) tea.Cmd {
	a.Msgs = append(a.Msgs, msg)
	return nil
}
