package embedding

import "context"

// Provider produces a face embedding for one image.
type Provider interface {
	// Represent embeds image, which is either a URL or a data URI.
	Represent(ctx context.Context, image, model, detector string) ([]float32, error)
}

type representRequest struct {
	Img             string `json:"img"`
	ModelName       string `json:"model_name"`
	DetectorBackend string `json:"detector_backend"`
}

type representResponse struct {
	Results []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"results"`
}

// serviceModelNames lists models whose service spelling differs from ours.
var serviceModelNames = map[string]string{
	"FaceNet":    "Facenet",
	"FaceNet512": "Facenet512",
}

// ServiceModelName returns the model name understood by the represent service.
func ServiceModelName(model string) string {
	if name, ok := serviceModelNames[model]; ok {
		return name
	}
	return model
}
