// Package scorer computes compatibility between two users from their
// profile features. It is a pure function layer: no storage, no clock,
// no randomness, so it can be tested in isolation and reused by any
// queue-building strategy.
package scorer

import "math"

// DefaultMaxDistanceKm applies when a viewer has no distance preference.
const DefaultMaxDistanceKm = 50.0

// Neutral term values used when one side lacks the data for a term.
// Missing data must never score as zero; it scores as "unknown".
const (
	neutralDistance = 50.0
	neutralInterest = 30.0
)

// Features is the scoring input for one side of a comparison.
type Features struct {
	Age       int
	Lat       *float64
	Lon       *float64
	Interests []string
}

// Prefs carries the viewer-side knobs that shape the score.
// AgeMin/AgeMax of 0 mean "no age preference recorded".
type Prefs struct {
	AgeMin        int
	AgeMax        int
	MaxDistanceKm float64
}

// Score returns a 0..1 affinity estimate of candidate for viewer.
//
// Three terms, each on a 0..100 scale:
//   - age: 100 at the midpoint of the viewer's preferred range, linear
//     falloff to 0 at the edges, hard 0 outside the range. Skipped
//     entirely when the viewer has no age preference.
//   - distance: 100 at zero distance, linear falloff to 0 at the
//     viewer's max distance. Neutral 50 when either side has no
//     coordinates.
//   - interests: Jaccard similarity of tag sets scaled to 0..100.
//     Neutral 30 when either side has no tags.
//
// The result is the unweighted mean of the terms in play, normalized
// to 0..1.
func Score(viewer Features, prefs Prefs, candidate Features) float64 {
	var terms []float64

	if prefs.AgeMin > 0 && prefs.AgeMax >= prefs.AgeMin {
		terms = append(terms, ageTerm(candidate.Age, prefs.AgeMin, prefs.AgeMax))
	}
	terms = append(terms, distanceTerm(viewer, candidate, prefs.MaxDistanceKm))
	terms = append(terms, interestTerm(viewer.Interests, candidate.Interests))

	var sum float64
	for _, t := range terms {
		sum += t
	}
	return clamp01(sum / float64(len(terms)) / 100.0)
}

func ageTerm(age, min, max int) float64 {
	if age < min || age > max {
		return 0
	}
	half := float64(max-min) / 2.0
	if half == 0 {
		return 100
	}
	mid := float64(min) + half
	return 100 * (1 - math.Abs(float64(age)-mid)/half)
}

func distanceTerm(viewer, candidate Features, maxKm float64) float64 {
	if viewer.Lat == nil || viewer.Lon == nil || candidate.Lat == nil || candidate.Lon == nil {
		return neutralDistance
	}
	if maxKm <= 0 {
		maxKm = DefaultMaxDistanceKm
	}
	d := haversineKm(*viewer.Lat, *viewer.Lon, *candidate.Lat, *candidate.Lon)
	if d >= maxKm {
		return 0
	}
	return 100 * (1 - d/maxKm)
}

func interestTerm(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return neutralInterest
	}

	setA := make(map[string]struct{}, len(a))
	for _, tag := range a {
		setA[tag] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, tag := range b {
		setB[tag] = struct{}{}
	}

	shared := 0
	for tag := range setB {
		if _, ok := setA[tag]; ok {
			shared++
		}
	}
	union := len(setA) + len(setB) - shared
	return 100 * float64(shared) / float64(union)
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0

	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0 || math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
