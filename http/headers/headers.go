package headers

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Header struct {
	Key, Value string
}

// Headers is a case-insensitive table holding one value per name. It acts as a map but
// uses linear search instead, which proves to be more efficient on relatively low amount
// of entries, which often enough is the case. Insertion order is preserved, so rendering
// the table is deterministic.
type Headers struct {
	pairs []Header
}

func New() *Headers {
	return new(Headers)
}

// NewPrealloc returns an instance of Headers with pre-allocated underlying storage.
func NewPrealloc(n int) *Headers {
	return &Headers{
		pairs: make([]Header, 0, n),
	}
}

// NewFromMap returns a new instance with already inserted values from given map.
// Note: as maps are unordered, resulting order is unspecified as well.
func NewFromMap(m map[string]string) *Headers {
	h := NewPrealloc(len(m))

	for key, value := range m {
		h.Set(key, value)
	}

	return h
}

// Set inserts the pair. If the key is already presented (case-insensitively), its
// entry is overwritten in place, keeping its original position.
func (h *Headers) Set(key, value string) *Headers {
	if i := h.index(key); i != -1 {
		h.pairs[i] = Header{Key: key, Value: value}
		return h
	}

	h.pairs = append(h.pairs, Header{Key: key, Value: value})
	return h
}

// Get returns a value and a bool, indicating whether the value was found.
func (h *Headers) Get(key string) (value string, found bool) {
	if i := h.index(key); i != -1 {
		return h.pairs[i].Value, true
	}

	return "", false
}

// Value returns the value corresponding to the key. Otherwise, empty string is returned
func (h *Headers) Value(key string) string {
	return h.ValueOr(key, "")
}

// ValueOr returns either the value corresponding to the key or custom value, defined
// via the second parameter.
func (h *Headers) ValueOr(key, or string) string {
	value, found := h.Get(key)
	if !found {
		return or
	}

	return value
}

// Has indicates, whether there's an entry of the key.
func (h *Headers) Has(key string) bool {
	return h.index(key) != -1
}

// Delete removes the entry of the key, if presented.
func (h *Headers) Delete(key string) *Headers {
	if i := h.index(key); i != -1 {
		h.pairs = append(h.pairs[:i], h.pairs[i+1:]...)
	}

	return h
}

// Iter returns an iterator over the pairs in insertion order.
func (h *Headers) Iter() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range h.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

// Len returns a number of stored pairs.
func (h *Headers) Len() int {
	return len(h.pairs)
}

func (h *Headers) Empty() bool {
	return h.Len() == 0
}

// Clone creates a deep copy, which may be used later or stored somewhere safely.
func (h *Headers) Clone() *Headers {
	pairs := make([]Header, len(h.pairs))
	copy(pairs, h.pairs)

	return &Headers{pairs: pairs}
}

// Expose exposes the underlying pairs slice.
func (h *Headers) Expose() []Header {
	return h.pairs
}

// Clear all the entries. However, all the allocated space won't be freed.
func (h *Headers) Clear() *Headers {
	h.pairs = h.pairs[:0]
	return h
}

func (h *Headers) index(key string) int {
	for i, pair := range h.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return i
		}
	}

	return -1
}
