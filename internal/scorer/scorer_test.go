package scorer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sparkmeet/spark-backend/internal/scorer"
)

func ptr(v float64) *float64 { return &v }

func TestScoreEmptyFeatureSets(t *testing.T) {
	// No prefs, no coordinates, no interests: score must still be a
	// sane neutral value, never NaN or an error.
	got := scorer.Score(scorer.Features{}, scorer.Prefs{}, scorer.Features{})

	assert.GreaterOrEqual(t, got, 0.0)
	assert.LessOrEqual(t, got, 1.0)
	// distance neutral 50 + interest neutral 30, mean 40 -> 0.4
	assert.InDelta(t, 0.4, got, 1e-9)
}

func TestScoreAlwaysWithinUnitInterval(t *testing.T) {
	viewers := []scorer.Features{
		{},
		{Age: 30, Lat: ptr(51.5), Lon: ptr(-0.12), Interests: []string{"hiking", "jazz"}},
		{Age: 99, Lat: ptr(-89.0), Lon: ptr(179.0)},
	}
	candidates := []scorer.Features{
		{},
		{Age: 18, Interests: []string{"hiking"}},
		{Age: 45, Lat: ptr(48.85), Lon: ptr(2.35), Interests: []string{"wine", "jazz", "art"}},
		{Age: 200, Lat: ptr(89.0), Lon: ptr(-179.0)},
	}
	prefs := []scorer.Prefs{
		{},
		{AgeMin: 25, AgeMax: 35},
		{AgeMin: 18, AgeMax: 18, MaxDistanceKm: 1},
		{AgeMin: 40, AgeMax: 20, MaxDistanceKm: -5}, // inverted range is ignored
	}

	for _, v := range viewers {
		for _, c := range candidates {
			for _, p := range prefs {
				got := scorer.Score(v, p, c)
				assert.GreaterOrEqual(t, got, 0.0)
				assert.LessOrEqual(t, got, 1.0)
			}
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	v := scorer.Features{Age: 30, Lat: ptr(51.5), Lon: ptr(-0.12), Interests: []string{"a", "b"}}
	c := scorer.Features{Age: 28, Lat: ptr(51.6), Lon: ptr(-0.2), Interests: []string{"b", "c"}}
	p := scorer.Prefs{AgeMin: 25, AgeMax: 35, MaxDistanceKm: 100}

	first := scorer.Score(v, p, c)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Score(v, p, c))
	}
}

func TestAgeTermMidpointAndEdges(t *testing.T) {
	p := scorer.Prefs{AgeMin: 20, AgeMax: 40}

	// Neutralize the other two terms: no coords (50), no interests (30).
	base := (50.0 + 30.0) / 3.0 / 100.0

	midpoint := scorer.Score(scorer.Features{}, p, scorer.Features{Age: 30})
	edge := scorer.Score(scorer.Features{}, p, scorer.Features{Age: 40})
	outside := scorer.Score(scorer.Features{}, p, scorer.Features{Age: 41})

	assert.InDelta(t, base+100.0/3.0/100.0, midpoint, 1e-9)
	assert.InDelta(t, base, edge, 1e-9) // edge contributes 0
	assert.InDelta(t, base, outside, 1e-9)
	assert.Greater(t, midpoint, edge)
}

func TestAgeTermSingleYearRange(t *testing.T) {
	p := scorer.Prefs{AgeMin: 30, AgeMax: 30}

	exact := scorer.Score(scorer.Features{}, p, scorer.Features{Age: 30})
	miss := scorer.Score(scorer.Features{}, p, scorer.Features{Age: 31})

	assert.Greater(t, exact, miss)
}

func TestDistanceTermFalloff(t *testing.T) {
	london := scorer.Features{Lat: ptr(51.5074), Lon: ptr(-0.1278)}
	nearby := scorer.Features{Lat: ptr(51.52), Lon: ptr(-0.13)}
	paris := scorer.Features{Lat: ptr(48.8566), Lon: ptr(2.3522)}

	p := scorer.Prefs{MaxDistanceKm: 50}

	same := scorer.Score(london, p, london)
	near := scorer.Score(london, p, nearby)
	far := scorer.Score(london, p, paris) // ~344km, beyond max -> term 0

	assert.Greater(t, same, near)
	assert.Greater(t, near, far)

	// Beyond max distance the term bottoms out at 0, not negative.
	noCoords := scorer.Score(scorer.Features{}, p, scorer.Features{})
	assert.Less(t, far, noCoords) // 0 beats neutral 50 downward
}

func TestInterestTermJaccard(t *testing.T) {
	v := scorer.Features{Interests: []string{"hiking", "jazz", "wine"}}

	identical := scorer.Score(v, scorer.Prefs{}, scorer.Features{Interests: []string{"hiking", "jazz", "wine"}})
	partial := scorer.Score(v, scorer.Prefs{}, scorer.Features{Interests: []string{"jazz", "chess"}})
	disjoint := scorer.Score(v, scorer.Prefs{}, scorer.Features{Interests: []string{"chess"}})
	missing := scorer.Score(v, scorer.Prefs{}, scorer.Features{})

	assert.Greater(t, identical, partial)
	assert.Greater(t, partial, disjoint)
	// Missing data is neutral (30), better than a measured zero overlap.
	assert.Greater(t, missing, disjoint)
}

func TestInterestTermIgnoresDuplicates(t *testing.T) {
	v := scorer.Features{Interests: []string{"jazz", "jazz", "jazz"}}
	c := scorer.Features{Interests: []string{"jazz"}}

	got := scorer.Score(v, scorer.Prefs{}, c)
	// Jaccard of {jazz} vs {jazz} is 1 -> term 100; distance neutral 50.
	assert.InDelta(t, (100.0+50.0)/2.0/100.0, got, 1e-9)
}
