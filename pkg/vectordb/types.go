package vectordb

import (
	"fmt"
	"strings"
)

// Vector is a face embedding. Its length is fixed per model.
type Vector []float32

// Backend names a storage engine on the wire.
type Backend string

const (
	BackendPostgreSQL Backend = "PostgreSQL"
	BackendQdrant     Backend = "Qdrant"
	BackendRedis      Backend = "Redis"
)

// Backends lists every known backend.
var Backends = []Backend{BackendPostgreSQL, BackendQdrant, BackendRedis}

// Model names a face recognition model.
type Model string

const (
	ModelVGGFace    Model = "VGG-Face"
	ModelFaceNet    Model = "FaceNet"
	ModelFaceNet512 Model = "FaceNet512"
	ModelDeepFace   Model = "DeepFace"
	ModelDeepID     Model = "DeepID"
	ModelArcFace    Model = "ArcFace"
	ModelDlib       Model = "Dlib"
	ModelOpenFace   Model = "OpenFace"
	ModelSFace      Model = "SFace"
)

// Models lists every supported model.
var Models = []Model{
	ModelVGGFace, ModelFaceNet, ModelFaceNet512, ModelDeepFace, ModelDeepID,
	ModelArcFace, ModelDlib, ModelOpenFace, ModelSFace,
}

// Detector names a face detector backend.
type Detector string

const (
	DetectorOpenCV     Detector = "OpenCV"
	DetectorMTCNN      Detector = "MTCNN"
	DetectorRetinaFace Detector = "RetinaFace"
	DetectorMediapipe  Detector = "Mediapipe"
	DetectorDlib       Detector = "Dlib"
	DetectorSSD        Detector = "SSD"
)

// Detectors lists every supported detector.
var Detectors = []Detector{
	DetectorOpenCV, DetectorMTCNN, DetectorRetinaFace, DetectorMediapipe, DetectorDlib, DetectorSSD,
}

// Metric is the distance metric used to compare embeddings.
type Metric string

const (
	MetricCosine    Metric = "Cosine"
	MetricEuclidean Metric = "Euclidean"
)

// Metrics lists every supported metric.
var Metrics = []Metric{MetricCosine, MetricEuclidean}

func (b Backend) Valid() bool  { return contains(Backends, b) }
func (m Model) Valid() bool    { return contains(Models, m) }
func (d Detector) Valid() bool { return contains(Detectors, d) }
func (m Metric) Valid() bool   { return contains(Metrics, m) }

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// IndexedItem is one stored embedding. Labels are not unique.
type IndexedItem struct {
	Label    string
	URL      string
	Model    Model
	Detector Detector
	Vector   Vector
}

// CollectionKey identifies the logical collection an embedding lives in.
type CollectionKey struct {
	Model    Model
	Detector Detector
	Metric   Metric
}

// Name is the deterministic, lowercased collection name for k,
// e.g. "vgg-face_opencv_cosine".
func (k CollectionKey) Name() string {
	return strings.ToLower(fmt.Sprintf("%s_%s_%s", k.Model, k.Detector, k.Metric))
}

func (k CollectionKey) String() string { return k.Name() }

// Match is one search hit. Distance is in the native sense of the metric:
// smaller is more similar.
type Match struct {
	Label    string  `json:"label"`
	URL      string  `json:"url"`
	Distance float64 `json:"distance"`
}

// Outcome is what Index.Search returns for one query.
type Outcome struct {
	// Matches holds every item within Threshold, nearest first.
	Matches []Match
	// TotalWithLabel counts all items carrying the expected label in the
	// collection, regardless of distance.
	TotalWithLabel int
	Threshold      float64
}
