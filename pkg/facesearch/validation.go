package facesearch

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	faceerr "github.com/Aleph-Alpha/facesearch/pkg/errors"
	"github.com/Aleph-Alpha/facesearch/pkg/vectordb"
)

var labelPattern = regexp.MustCompile(`^[a-zA-Z0-9-_]+$`)

// ValidLabel reports whether label is a well-formed label.
func ValidLabel(label string) bool {
	return labelPattern.MatchString(label)
}

func oneOf[T ~string](values []T) string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, string(v))
	}
	return strings.Join(names, ", ")
}

// validate checks every field of req. The first problem found is returned as
// a validation error whose message is safe to show the caller.
func (s *Service) validate(req Request) error {
	if !req.Model.Valid() {
		return faceerr.Errorf(faceerr.CodeValidation, "invalid model %q: must be one of %s", req.Model, oneOf(vectordb.Models))
	}
	if !req.Detector.Valid() {
		return faceerr.Errorf(faceerr.CodeValidation, "invalid detector %q: must be one of %s", req.Detector, oneOf(vectordb.Detectors))
	}
	if !req.DistanceMetric.Valid() {
		return faceerr.Errorf(faceerr.CodeValidation, "invalid distanceMetric %q: must be one of %s", req.DistanceMetric, oneOf(vectordb.Metrics))
	}
	if !req.Database.Valid() {
		return faceerr.Errorf(faceerr.CodeValidation, "invalid database %q: must be one of %s", req.Database, oneOf(vectordb.Backends))
	}
	if !s.backends.Has(req.Database) {
		return faceerr.Errorf(faceerr.CodeValidation, "database %q is not enabled", req.Database)
	}

	for i, img := range req.Images {
		if !ValidLabel(img.Label) {
			return faceerr.Errorf(faceerr.CodeValidation, "invalid label %q at images[%d]: must match %s", img.Label, i, labelPattern)
		}
		if strings.TrimSpace(img.URL) == "" {
			return faceerr.New(faceerr.CodeValidation, fmt.Sprintf("missing url at images[%d]", i))
		}
		if !fetchableURL(img.URL) {
			return faceerr.Errorf(faceerr.CodeValidation, "invalid url %q at images[%d]: must be an absolute http(s) url or a data uri", img.URL, i)
		}
	}
	return nil
}

// fetchableURL reports whether raw is a data URI or an absolute http(s) URL
// with a host.
func fetchableURL(raw string) bool {
	if strings.HasPrefix(raw, "data:") {
		return true
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
