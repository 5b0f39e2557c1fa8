package audio

import (
	"container/list"
	"math"
	"sort"
	"strings"
)

// Hit names one drum voice sounding at a tick.
type Hit struct {
	Voice  string
	Accent bool
}

// Mixer resolves simultaneous hits against a bank and produces one encoded
// buffer per cluster. Like the bank it lives on the audio-feeding goroutine.
type Mixer struct {
	bank  *Bank
	gen   uint64
	cache *mixCache
}

const mixCacheLimit = 64

func NewMixer(b *Bank) *Mixer {
	return &Mixer{bank: b, gen: b.Generation(), cache: newMixCache(mixCacheLimit)}
}

// Mix returns the encoded buffer for a set of hits. A single known hit takes
// the fast path: the bank's pre-encoded sample, byte for byte. Unknown voices
// are dropped from the cluster; nil means nothing resolved.
//
// Clusters built purely from single-variant voices repeat exactly, so their
// mixes are cached. Any multi-variant contributor disables caching for that
// cluster, otherwise a cached draw would stand in for all future ones.
func (m *Mixer) Mix(hits []Hit) []byte {
	if len(hits) == 0 {
		return nil
	}
	if m.gen != m.bank.Generation() {
		m.gen = m.bank.Generation()
		m.cache.clear()
	}
	if len(hits) == 1 {
		if buf, ok := m.bank.Voice(hits[0].Voice, hits[0].Accent); ok {
			return buf
		}
		return nil
	}
	key, cacheable := m.cacheKey(hits)
	if cacheable {
		if buf, ok := m.cache.get(key); ok {
			return buf
		}
	}
	mixed := m.mixFloats(hits)
	if mixed == nil {
		return nil
	}
	buf := encode(mixed, m.bank.format)
	if cacheable {
		m.cache.put(key, buf)
	}
	return buf
}

// mixFloats sums one random variant per resolved hit into a buffer sized to
// the longest contributor, normalizes and clamps.
func (m *Mixer) mixFloats(hits []Hit) []float64 {
	type source struct {
		samples []float64
		gain    float64
	}
	var sources []source
	maxLen := 0
	for _, h := range hits {
		vs, ok := m.bank.voices[CanonicalVoice(h.Voice)]
		if !ok {
			continue
		}
		s := vs.floats[0]
		if len(vs.floats) > 1 {
			s = vs.floats[m.bank.rng.Intn(len(vs.floats))]
		}
		gain := 1.0
		if h.Accent {
			gain = AccentGain
		}
		sources = append(sources, source{s, gain})
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}
	if len(sources) == 0 || maxLen == 0 {
		return nil
	}
	mix := make([]float64, maxLen)
	for _, src := range sources {
		for i, v := range src.samples {
			mix[i] += v * src.gain
		}
	}
	norm := 1 / math.Max(1, float64(len(sources))*0.75)
	for i, v := range mix {
		mix[i] = clampUnit(v * norm)
	}
	return mix
}

// cacheKey canonicalizes a cluster as its sorted (voice, accent) pairs.
// The second result is false when the cluster must not be cached.
func (m *Mixer) cacheKey(hits []Hit) (string, bool) {
	parts := make([]string, 0, len(hits))
	for _, h := range hits {
		name := CanonicalVoice(h.Voice)
		vs, ok := m.bank.voices[name]
		if !ok {
			continue
		}
		if len(vs.floats) > 1 {
			return "", false
		}
		if h.Accent {
			name += "!"
		}
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return "", false
	}
	sort.Strings(parts)
	return strings.Join(parts, "|"), true
}

// mixCache is a small LRU of encoded cluster mixes.
type mixCache struct {
	limit int
	order *list.List
	items map[string]*list.Element
}

type mixEntry struct {
	key string
	buf []byte
}

func newMixCache(limit int) *mixCache {
	return &mixCache{
		limit: limit,
		order: list.New(),
		items: make(map[string]*list.Element),
	}
}

func (c *mixCache) get(key string) ([]byte, bool) {
	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*mixEntry).buf, true
}

func (c *mixCache) put(key string, buf []byte) {
	if el, ok := c.items[key]; ok {
		el.Value.(*mixEntry).buf = buf
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&mixEntry{key: key, buf: buf})
	if c.order.Len() > c.limit {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*mixEntry).key)
	}
}

func (c *mixCache) clear() {
	c.order.Init()
	c.items = make(map[string]*list.Element)
}
