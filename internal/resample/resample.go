package resample

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Point is one raw observation belonging to an entity. Values holds only
// the metrics that were actually measured; an absent key is a null.
type Point struct {
	Key    string
	Time   time.Time
	Values map[string]float64
}

// Bucket is one aggregated time bucket for a single entity. Means holds the
// arithmetic mean of every metric that had at least one observation in the
// bucket's interval.
type Bucket struct {
	Key   string
	End   time.Time
	Means map[string]float64
}

// Aggregate partitions points by entity key and resamples each partition
// independently onto buckets of the given cadence, averaging each metric in
// the metrics list. Buckets are labeled at their right edge. Buckets where
// every metric is null are dropped. The result is the concatenation of all
// partitions, sorted by bucket end with the entity key as secondary sort
// key, so output order does not depend on input order.
func Aggregate(points []Point, metrics []string, cadence Cadence) []Bucket {
	// Partition once by entity key; a cutoff or gap affecting one entity
	// must never influence another entity's buckets.
	partitions := make(map[string][]Point)
	for _, p := range points {
		partitions[p.Key] = append(partitions[p.Key], p)
	}

	var out []Bucket
	for key, part := range partitions {
		out = append(out, aggregatePartition(key, part, metrics, cadence)...)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].End.Equal(out[j].End) {
			return out[i].End.Before(out[j].End)
		}
		return out[i].Key < out[j].Key
	})
	return out
}

func aggregatePartition(key string, points []Point, metrics []string, cadence Cadence) []Bucket {
	samples := make(map[time.Time]map[string][]float64)
	for _, p := range points {
		end := cadence.BucketEnd(p.Time)
		byMetric := samples[end]
		if byMetric == nil {
			byMetric = make(map[string][]float64)
			samples[end] = byMetric
		}
		for _, m := range metrics {
			if v, ok := p.Values[m]; ok {
				byMetric[m] = append(byMetric[m], v)
			}
		}
	}

	buckets := make([]Bucket, 0, len(samples))
	for end, byMetric := range samples {
		means := make(map[string]float64, len(byMetric))
		for _, m := range metrics {
			if xs := byMetric[m]; len(xs) > 0 {
				means[m] = stat.Mean(xs, nil)
			}
		}
		if len(means) == 0 {
			// Every metric was null over this interval.
			continue
		}
		buckets = append(buckets, Bucket{Key: key, End: end, Means: means})
	}

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].End.Before(buckets[j].End) })
	return buckets
}
