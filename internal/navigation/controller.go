package navigation

import (
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// NewTabURL is the reserved payload for the internal new-tab page. It is
// never a loadable URL.
const NewTabURL = "newtab"

// ErrInvalidSnapshot is returned by Restore when a snapshot cannot describe a session.
var ErrInvalidSnapshot = errors.New("navigation: invalid snapshot")

// Action describes what AddEntry did with a navigation.
type Action int

const (
	ActionInitialized Action = iota // tab had no session; one was created
	ActionUnchanged                 // URL equals the current entry
	ActionReplaced                  // near-duplicate; current entry rewritten
	ActionAppended                  // new entry after the cursor
)

func (a Action) String() string {
	switch a {
	case ActionInitialized:
		return "initialized"
	case ActionUnchanged:
		return "unchanged"
	case ActionReplaced:
		return "replaced"
	case ActionAppended:
		return "appended"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of one tab's navigation history.
type Snapshot struct {
	Current int     `json:"current"`
	Max     int     `json:"max"`
	Entries []Entry `json:"entries"`
	Size    int     `json:"size"`
}

// State is what a host needs to draw a tab's navigation affordances.
type State struct {
	URL          string
	CanGoBack    bool
	CanGoForward bool
}

// session is the navigation state of a single tab.
type session struct {
	tree    *Tree
	current int // position of the displayed entry
	max     int // highest position assigned since the last truncation
}

// Controller keeps per-tab navigation history and applies the add, replace,
// back and forward policy. It is safe for concurrent use; calls for the same
// tab are applied in the order they acquire the lock.
type Controller struct {
	mu       sync.Mutex
	sessions map[int]*session
	log      *zap.Logger
}

// NewController creates a Controller. A nil logger disables logging.
func NewController(logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		sessions: make(map[int]*session),
		log:      logger.Named("navigation"),
	}
}

// InitializeTab starts a fresh history for tabID with initialURL at position 0.
// An empty initialURL means NewTabURL. Any existing history for the tab is discarded.
func (c *Controller) InitializeTab(tabID int, initialURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initialize(tabID, initialURL)
}

func (c *Controller) initialize(tabID int, initialURL string) *session {
	if initialURL == "" {
		initialURL = NewTabURL
	}
	s := &session{tree: NewTree()}
	s.tree.Insert(initialURL, 0)
	c.sessions[tabID] = s
	c.log.Debug("tab initialized", zap.Int("tab", tabID), zap.String("url", initialURL))
	return s
}

// AddEntry records a committed navigation to url in tabID.
func (c *Controller) AddEntry(tabID int, url string) Action {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[tabID]
	if !ok {
		c.initialize(tabID, url)
		return ActionInitialized
	}

	action := c.add(s, url)
	c.log.Debug("navigation recorded",
		zap.Int("tab", tabID),
		zap.String("url", url),
		zap.Stringer("action", action),
		zap.Int("position", s.current),
	)
	return action
}

func (c *Controller) add(s *session, url string) Action {
	if cur := s.tree.Find(s.current); cur != nil {
		if cur.url == url {
			return ActionUnchanged
		}
		if IsSimilarURL(cur.url, url) {
			s.replaceCurrent(url)
			return ActionReplaced
		}
	}

	if s.current < s.max {
		s.tree.DeleteGreaterThan(s.current)
		s.max = s.current
	}

	next := s.current + 1
	s.tree.Insert(url, next)
	s.current = next
	s.max = next
	return ActionAppended
}

func (s *session) replaceCurrent(url string) {
	s.tree.Delete(s.current)
	s.tree.Insert(url, s.current)
}

// ReplaceCurrentEntry rewrites the entry under the cursor of tabID. A tab
// without history is initialized with url.
func (c *Controller) ReplaceCurrentEntry(tabID int, url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[tabID]
	if !ok {
		c.initialize(tabID, url)
		return
	}
	s.replaceCurrent(url)
	c.log.Debug("entry replaced", zap.Int("tab", tabID), zap.Int("position", s.current), zap.String("url", url))
}

// neighbours returns the entries either side of the cursor.
func (s *session) neighbours() (prev, next *Node) {
	cur := s.tree.Find(s.current)
	if cur == nil {
		return nil, nil
	}
	return s.tree.Predecessor(cur), s.tree.Successor(cur)
}

// CanGoBack reports whether tabID has an entry before the cursor.
func (c *Controller) CanGoBack(tabID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[tabID]
	if !ok {
		return false
	}
	prev, _ := s.neighbours()
	return prev != nil
}

// CanGoForward reports whether tabID has an entry after the cursor.
func (c *Controller) CanGoForward(tabID int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[tabID]
	if !ok {
		return false
	}
	_, next := s.neighbours()
	return next != nil
}

// GoBack moves the cursor of tabID to the previous entry and returns its URL.
// It returns false, leaving the tab untouched, when there is nothing to go back to.
func (c *Controller) GoBack(tabID int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[tabID]
	if !ok {
		return "", false
	}
	prev, _ := s.neighbours()
	if prev == nil {
		return "", false
	}
	s.current = prev.pos
	c.log.Debug("back", zap.Int("tab", tabID), zap.Int("position", s.current))
	return prev.url, true
}

// GoForward moves the cursor of tabID to the next entry and returns its URL.
// It returns false, leaving the tab untouched, when there is nothing ahead.
func (c *Controller) GoForward(tabID int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[tabID]
	if !ok {
		return "", false
	}
	_, next := s.neighbours()
	if next == nil {
		return "", false
	}
	s.current = next.pos
	c.log.Debug("forward", zap.Int("tab", tabID), zap.Int("position", s.current))
	return next.url, true
}

// CurrentURL returns the URL under the cursor of tabID.
func (c *Controller) CurrentURL(tabID int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[tabID]
	if !ok {
		return "", false
	}
	cur := s.tree.Find(s.current)
	if cur == nil {
		return "", false
	}
	return cur.url, true
}

// State returns the current URL and back/forward availability of tabID.
// An unknown tab yields the zero State.
func (c *Controller) State(tabID int) State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[tabID]
	if !ok {
		return State{}
	}
	var st State
	if cur := s.tree.Find(s.current); cur != nil {
		st.URL = cur.url
	}
	prev, next := s.neighbours()
	st.CanGoBack = prev != nil
	st.CanGoForward = next != nil
	return st
}

// History returns a snapshot of tabID's history.
func (c *Controller) History(tabID int) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[tabID]
	if !ok {
		return Snapshot{}, false
	}
	return Snapshot{
		Current: s.current,
		Max:     s.max,
		Entries: s.tree.Entries(),
		Size:    s.tree.Len(),
	}, true
}

// Len returns the number of history entries of tabID, or 0 for an unknown tab.
func (c *Controller) Len(tabID int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.sessions[tabID]; ok {
		return s.tree.Len()
	}
	return 0
}

// RemoveTab drops all history for tabID. Removing an unknown tab is a no-op.
func (c *Controller) RemoveTab(tabID int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.sessions[tabID]; ok {
		delete(c.sessions, tabID)
		c.log.Debug("tab removed", zap.Int("tab", tabID))
	}
}

// ClearHistory drops all history for tabID. The tab starts over on its next navigation.
func (c *Controller) ClearHistory(tabID int) {
	c.RemoveTab(tabID)
}

// Restore replaces tabID's history with the contents of snap. The cursor must
// refer to one of the snapshot's entries.
func (c *Controller) Restore(tabID int, snap Snapshot) error {
	if len(snap.Entries) == 0 {
		return ErrInvalidSnapshot
	}

	s := &session{tree: NewTree(), current: snap.Current, max: snap.Max}
	for _, e := range snap.Entries {
		s.tree.Insert(e.URL, e.Position)
	}
	if s.tree.Find(s.current) == nil {
		return ErrInvalidSnapshot
	}
	if last := s.tree.Max().pos; s.max < last {
		s.max = last
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[tabID] = s
	c.log.Debug("tab restored", zap.Int("tab", tabID), zap.Int("entries", s.tree.Len()))
	return nil
}

// Tabs returns the ids of all tabs with history, in ascending order.
func (c *Controller) Tabs() []int {
	c.mu.Lock()
	defer c.mu.Unlock()

	ids := make([]int, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
