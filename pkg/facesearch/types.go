package facesearch

import (
	"github.com/Aleph-Alpha/facesearch/pkg/vectordb"
)

// Image is one labelled face image.
type Image struct {
	Label string `json:"label" doc:"Identity the face belongs to" example:"alice"`
	URL   string `json:"url" doc:"HTTP(S) or data: URL of the image"`
}

// Request is a batch of images sharing one model, detector, metric and database.
type Request struct {
	Images         []Image           `json:"images"`
	Model          vectordb.Model    `json:"model" example:"VGG-Face"`
	Detector       vectordb.Detector `json:"detector" example:"OpenCV"`
	DistanceMetric vectordb.Metric   `json:"distanceMetric" example:"Cosine"`
	Database       vectordb.Backend  `json:"database" example:"PostgreSQL"`
}

// Result is the outcome of searching for one image.
type Result struct {
	Label string `json:"label"`
	URL   string `json:"url"`
	// Time is the elapsed processing time of the image in milliseconds.
	Time      float64 `json:"time"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`

	Model          vectordb.Model    `json:"model"`
	Detector       vectordb.Detector `json:"detector"`
	DistanceMetric vectordb.Metric   `json:"distanceMetric"`
	Database       vectordb.Backend  `json:"database"`

	Matches []vectordb.Match `json:"matches"`
}
