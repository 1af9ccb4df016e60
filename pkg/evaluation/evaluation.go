package evaluation

import (
	"github.com/Aleph-Alpha/facesearch/pkg/vectordb"
)

// Counts is the confusion breakdown of one search.
type Counts struct {
	TruePositives  int
	FalsePositives int
	FalseNegatives int
}

// Score holds the retrieval quality of one search.
type Score struct {
	Precision float64
	Recall    float64
	F1        float64
	Counts    Counts
}

// Count classifies matches against expectedLabel. total is the number of
// stored items carrying expectedLabel.
func Count(matches []vectordb.Match, expectedLabel string, total int) Counts {
	var c Counts
	for _, m := range matches {
		if m.Label == expectedLabel {
			c.TruePositives++
		} else {
			c.FalsePositives++
		}
	}
	c.FalseNegatives = max(total-c.TruePositives, 0)
	return c
}

// Evaluate scores matches against expectedLabel.
func Evaluate(matches []vectordb.Match, expectedLabel string, total int) Score {
	return FromCounts(Count(matches, expectedLabel, total))
}

// FromCounts derives precision, recall and F1 from c.
func FromCounts(c Counts) Score {
	precision := 1.0
	if returned := c.TruePositives + c.FalsePositives; returned > 0 {
		precision = float64(c.TruePositives) / float64(returned)
	}

	recall := 0.0
	if relevant := c.TruePositives + c.FalseNegatives; relevant > 0 {
		recall = float64(c.TruePositives) / float64(relevant)
	}

	f1 := 1.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}

	return Score{Precision: precision, Recall: recall, F1: f1, Counts: c}
}
