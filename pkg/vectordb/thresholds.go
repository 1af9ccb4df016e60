package vectordb

import (
	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
)

// thresholds holds the verification thresholds DeepFace calibrated for each
// model. A pair is a match when its distance is at most the threshold.
var thresholds = map[Model]map[Metric]float64{
	ModelVGGFace:    {MetricCosine: 0.40, MetricEuclidean: 0.60},
	ModelFaceNet:    {MetricCosine: 0.40, MetricEuclidean: 10},
	ModelFaceNet512: {MetricCosine: 0.30, MetricEuclidean: 23.56},
	ModelArcFace:    {MetricCosine: 0.68, MetricEuclidean: 4.15},
	ModelDlib:       {MetricCosine: 0.07, MetricEuclidean: 0.6},
	ModelSFace:      {MetricCosine: 0.593, MetricEuclidean: 10.734},
	ModelOpenFace:   {MetricCosine: 0.10, MetricEuclidean: 0.55},
	ModelDeepFace:   {MetricCosine: 0.23, MetricEuclidean: 64},
	ModelDeepID:     {MetricCosine: 0.015, MetricEuclidean: 45},
}

// Threshold returns the calibrated threshold for model and metric.
func Threshold(model Model, metric Metric) (float64, bool) {
	t, ok := thresholds[model][metric]
	return t, ok
}

// ThresholdEntry is one row of the calibration table.
type ThresholdEntry struct {
	Model     Model
	Metric    Metric
	Threshold float64
}

// ThresholdTable returns the calibration table in model, then metric order.
func ThresholdTable() []ThresholdEntry {
	entries := make([]ThresholdEntry, 0, len(Models)*len(Metrics))
	for _, m := range Models {
		for _, metric := range Metrics {
			if t, ok := Threshold(m, metric); ok {
				entries = append(entries, ThresholdEntry{Model: m, Metric: metric, Threshold: t})
			}
		}
	}
	return entries
}

// ValidateThresholds checks that every model has a positive threshold for
// every metric. A gap is a configuration error.
func ValidateThresholds() error {
	return validateThresholds(thresholds)
}

func validateThresholds(table map[Model]map[Metric]float64) error {
	for _, m := range Models {
		for _, metric := range Metrics {
			t, ok := table[m][metric]
			if !ok {
				return faceerr.New(faceerr.CodeConfiguration, "missing distance threshold",
					faceerr.Field("model", m),
					faceerr.Field("metric", metric),
				)
			}
			if t <= 0 {
				return faceerr.New(faceerr.CodeConfiguration, "distance threshold must be positive",
					faceerr.Field("model", m),
					faceerr.Field("metric", metric),
					faceerr.Field("threshold", t),
				)
			}
		}
	}
	return nil
}
