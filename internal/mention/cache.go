package mention

import (
	"errors"
	"regexp"
	"strings"
	"sync"
)

// ErrNoMention is returned by Insert when no mention is open at the cursor.
var ErrNoMention = errors.New("mention: no open mention at cursor")

const displayPrefix = "display:"

var (
	codeForm     = regexp.MustCompile(`@(task|todolist|person|diary|calendar|date):(\S+)`)
	friendlyForm = regexp.MustCompile(`@([^\s@:]+)`)
)

// Lookup resolves a code-form mention that is not in the cache, so that
// messages reloaded from history stay parseable.
type Lookup interface {
	Resolve(kind Kind, id string) (Ref, bool)
}

// Cache remembers the mentions inserted while composing one message.
// Keys are kept in insertion order; friendly-name fallback walks them in
// that order. It is safe for concurrent use.
type Cache struct {
	mu     sync.Mutex
	keys   []string
	refs   map[string]Ref
	lookup Lookup
}

// NewCache creates an empty cache. lookup may be nil.
func NewCache(lookup Lookup) *Cache {
	return &Cache{refs: map[string]Ref{}, lookup: lookup}
}

// Insertion is the result of inserting a candidate.
type Insertion struct {
	Text string `json:"text"`
	// Cursor is the rune offset just after the inserted name.
	Cursor int    `json:"cursor"`
	Name   string `json:"name"`
}

// Insert replaces the "@query" span that ends at cursor with "@<friendly
// name>" and records the candidate under both its code key and its display
// key.
func (c *Cache) Insert(text string, cursor int, cand Candidate) (Insertion, error) {
	runes := []rune(text)
	if cursor > len(runes) {
		cursor = len(runes)
	}
	_, at, ok := openMention(runes, cursor)
	if !ok {
		return Insertion{}, ErrNoMention
	}

	name := FriendlyName(cand.Kind, cand.Label)
	var b strings.Builder
	b.WriteString(string(runes[:at]))
	b.WriteString("@")
	b.WriteString(name)
	b.WriteString(string(runes[cursor:]))

	c.mu.Lock()
	c.put(cand.Ref.Key(), cand.Ref)
	c.put(displayPrefix+name, cand.Ref)
	c.mu.Unlock()

	return Insertion{
		Text:   b.String(),
		Cursor: at + 1 + len([]rune(name)),
		Name:   name,
	}, nil
}

// Remember records a reference without touching any text.
func (c *Cache) Remember(name string, r Ref) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(r.Key(), r)
	if name != "" {
		c.put(displayPrefix+name, r)
	}
}

func (c *Cache) put(key string, r Ref) {
	if _, ok := c.refs[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.refs[key] = r
}

// Get returns the reference stored under key ("type:id" or "display:name").
func (c *Cache) Get(key string) (Ref, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.refs[key]
	return r, ok
}

// Keys returns every cache key in insertion order.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.keys...)
}

// Len returns the number of cache keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.keys)
}

// Reset discards every cached mention.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys = nil
	c.refs = map[string]Ref{}
}

// Parse returns the mentions a finalized message contains. Code-form
// mentions come first, then friendly-form ones, each in text order.
// Mentions that cannot be resolved are dropped.
func (c *Cache) Parse(message string) *Mentions {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := newMentions()
	codeStarts := map[int]bool{}

	for _, m := range codeForm.FindAllStringSubmatchIndex(message, -1) {
		if escapedAt(message, m[0]) {
			continue
		}
		codeStarts[m[0]] = true
		kind, _ := ParseKind(message[m[2]:m[3]])
		id := message[m[4]:m[5]]
		key := string(kind) + ":" + id

		if r, ok := c.refs[key]; ok {
			out.add(key, r)
			continue
		}
		if c.lookup != nil {
			if r, ok := c.lookup.Resolve(kind, id); ok {
				out.add(key, r)
			}
		}
	}

	for _, m := range friendlyForm.FindAllStringSubmatchIndex(message, -1) {
		if codeStarts[m[0]] || escapedAt(message, m[0]) {
			continue
		}
		if r, ok := c.resolveFriendly(message[m[2]:m[3]]); ok {
			out.add(r.Key(), r)
		}
	}

	return out
}

// resolveFriendly tries the exact display key, then the first cached
// display name that contains the token or is contained by it.
func (c *Cache) resolveFriendly(token string) (Ref, bool) {
	if r, ok := c.refs[displayPrefix+token]; ok {
		return r, true
	}
	lower := strings.ToLower(token)
	for _, key := range c.keys {
		name, ok := strings.CutPrefix(key, displayPrefix)
		if !ok {
			continue
		}
		stored := strings.ToLower(name)
		if strings.Contains(stored, lower) || strings.Contains(lower, stored) {
			return c.refs[key], true
		}
	}
	return Ref{}, false
}

func escapedAt(s string, i int) bool {
	return i > 0 && s[i-1] == '\\'
}

// ─── Mentions ────────────────────────────────────────────────────────────────

// Mentions is the ordered result of Parse, keyed by "type:id".
type Mentions struct {
	keys []string
	refs map[string]Ref
}

func newMentions() *Mentions {
	return &Mentions{refs: map[string]Ref{}}
}

func (m *Mentions) add(key string, r Ref) {
	if _, ok := m.refs[key]; ok {
		return
	}
	m.keys = append(m.keys, key)
	m.refs[key] = r
}

// Len returns the number of mentions.
func (m *Mentions) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the mention keys in order.
func (m *Mentions) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Get returns the reference for key.
func (m *Mentions) Get(key string) (Ref, bool) {
	if m == nil {
		return Ref{}, false
	}
	r, ok := m.refs[key]
	return r, ok
}

// Refs returns the references in order.
func (m *Mentions) Refs() []Ref {
	if m == nil {
		return nil
	}
	out := make([]Ref, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, m.refs[k])
	}
	return out
}
