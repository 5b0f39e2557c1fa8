package audio

import (
	"bytes"
	"math"
	"math/rand"
	"testing"
)

func simplifiedMixer() (*Bank, *Mixer) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 16, Type: SignedInt}
	b := NewBank(f, rand.New(rand.NewSource(1)))
	b.SetMode(SimplifiedKit)
	return b, NewMixer(b)
}

func TestMixEmpty(t *testing.T) {
	_, m := simplifiedMixer()
	if got := m.Mix(nil); got != nil {
		t.Errorf("mix of no hits: want nil, got %v bytes", len(got))
	}
}

func TestMixSingleHit(t *testing.T) {
	b, m := simplifiedMixer()
	want, _ := b.Voice("snare", true)
	got := m.Mix([]Hit{{Voice: "snare", Accent: true}})
	if !bytes.Equal(got, want) {
		t.Error("single hit did not reuse the bank buffer")
	}
	if got := m.Mix([]Hit{{Voice: "cowbell"}}); got != nil {
		t.Errorf("unknown single hit: want nil, got %v bytes", len(got))
	}
}

func TestMixDropsUnknownVoices(t *testing.T) {
	b, m := simplifiedMixer()
	// One resolved source keeps the normalization at 1, so the cluster mix
	// reduces to the bank's own kick buffer.
	want, _ := b.Voice("kick", false)
	got := m.Mix([]Hit{{Voice: "kick"}, {Voice: "cowbell"}})
	if !bytes.Equal(got, want) {
		t.Error("cluster with one resolved voice did not match the bank buffer")
	}
	if got := m.Mix([]Hit{{Voice: "cowbell"}, {Voice: "bell"}}); got != nil {
		t.Errorf("all-unknown cluster: want nil, got %v bytes", len(got))
	}
}

func TestMixClusterSizeAndBounds(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 16, Type: SignedInt}
	b := NewBank(f, rand.New(rand.NewSource(1)))
	m := NewMixer(b)

	hits := make([]Hit, len(Voices))
	for i, v := range Voices {
		hits[i] = Hit{Voice: v, Accent: true}
	}
	mixed := m.mixFloats(hits)
	// The crash is the longest voice at 520ms.
	if want, got := 4160, len(mixed); want != got {
		t.Errorf("wrong mix length: want %v, got %v", want, got)
	}
	for i, s := range mixed {
		if math.Abs(s) > 1 {
			t.Fatalf("sample %v out of range after normalization: %v", i, s)
		}
	}
}

func TestMixCachesSingleVariantClusters(t *testing.T) {
	_, m := simplifiedMixer()
	hits := []Hit{{Voice: "kick"}, {Voice: "snare", Accent: true}}
	first := m.Mix(hits)
	second := m.Mix(hits)
	if !bytes.Equal(first, second) {
		t.Error("repeated cluster mixes differ")
	}
	if want, got := 1, m.cache.order.Len(); want != got {
		t.Errorf("wrong cache size: want %v, got %v", want, got)
	}

	// Hit order and aliasing do not produce new entries.
	m.Mix([]Hit{{Voice: "snare", Accent: true}, {Voice: "hihat"}})
	m.Mix([]Hit{{Voice: "hihat_closed"}, {Voice: "snare", Accent: true}})
	if want, got := 2, m.cache.order.Len(); want != got {
		t.Errorf("wrong cache size: want %v, got %v", want, got)
	}
}

func TestMixSkipsCacheForMultiVariantVoices(t *testing.T) {
	f := Format{SampleRate: 8000, Channels: 1, BitDepth: 16, Type: SignedInt}
	b := NewBank(f, rand.New(rand.NewSource(1)))
	m := NewMixer(b)
	m.Mix([]Hit{{Voice: "kick"}, {Voice: "snare"}})
	if got := m.cache.order.Len(); got != 0 {
		t.Errorf("multi-variant cluster was cached: cache size %v", got)
	}
}

func TestMixCacheDroppedOnRebuild(t *testing.T) {
	b, m := simplifiedMixer()
	hits := []Hit{{Voice: "kick"}, {Voice: "snare"}}
	loud := m.Mix(hits)
	b.SetVolume(0.5)
	quiet := m.Mix(hits)
	if bytes.Equal(loud, quiet) {
		t.Error("mix unchanged after bank rebuild")
	}
	if want, got := 1, m.cache.order.Len(); want != got {
		t.Errorf("wrong cache size after rebuild: want %v, got %v", want, got)
	}
}

func TestMixCacheLRU(t *testing.T) {
	c := newMixCache(2)
	c.put("a", []byte{1})
	c.put("b", []byte{2})
	if _, ok := c.get("a"); !ok {
		t.Fatal("a missing")
	}
	c.put("c", []byte{3}) // b is now the oldest entry
	if _, ok := c.get("b"); ok {
		t.Error("b survived eviction")
	}
	if _, ok := c.get("a"); !ok {
		t.Error("a evicted despite recent use")
	}
	if _, ok := c.get("c"); !ok {
		t.Error("c missing")
	}
}
