package hebcal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectorCacheHit(t *testing.T) {
	p := NewProjector(10)
	d := HDate{5785, Nisan, 15}

	first := p.Gregorian(d)
	require.True(t, first.Equal(gdate(2025, 4, 13)))

	for i := 0; i < 3; i++ {
		assert.Same(t, first, p.Gregorian(d))
	}
	assert.Equal(t, 1, p.CacheSize())
}

func TestProjectorClearCache(t *testing.T) {
	p := NewProjector(10)
	d := HDate{5786, Tishrei, 1}

	before := p.Gregorian(d)
	p.ClearCache()
	assert.Equal(t, 0, p.CacheSize())

	after := p.Gregorian(d)
	assert.NotSame(t, before, after)
	assert.True(t, before.Equal(*after))
}

func TestProjectorEvictsOldestFirst(t *testing.T) {
	p := NewProjector(2)
	a := HDate{5785, Tishrei, 1}
	b := HDate{5785, Tishrei, 2}
	c := HDate{5785, Tishrei, 3}

	pa := p.Gregorian(a)
	pb := p.Gregorian(b)
	p.Gregorian(c) // cache full: a is evicted

	assert.Equal(t, 2, p.CacheSize())
	assert.Same(t, pb, p.Gregorian(b))

	pa2 := p.Gregorian(a)
	assert.NotSame(t, pa, pa2)
	assert.True(t, pa.Equal(*pa2))
}

func TestProjectorCacheBounded(t *testing.T) {
	p := NewProjector(3)
	for day := 1; day <= 10; day++ {
		p.Gregorian(HDate{5785, Nisan, day})
	}
	assert.Equal(t, 3, p.CacheSize())
}

func TestProjectorDefaultCapacity(t *testing.T) {
	p := NewProjector(0)
	for year := 5000; year < 5000+DefaultCacheCapacity+50; year++ {
		p.Gregorian(HDate{year, Tishrei, 1})
	}
	assert.Equal(t, DefaultCacheCapacity, p.CacheSize())
}
