package model

// Evaluation is the library's test report on a held-out file.
type Evaluation struct {
	SampleCount int
	Precision   float64
	Recall      float64
}

// Prediction is the top label for an input and the probability mass on it.
type Prediction struct {
	Label      string
	Confidence float64
}

// SimilarityStatus tells apart the outcomes of a nearest-neighbour lookup.
type SimilarityStatus string

// Similarity status constants.
const (
	StatusFound           SimilarityStatus = "found"
	StatusNotInVocabulary SimilarityStatus = "not_in_vocabulary"
	StatusFailed          SimilarityStatus = "failed"
)

// SimilarityResult is the outcome of a nearest-neighbour lookup.
// Err is set for every status other than StatusFound.
type SimilarityResult struct {
	Err       error
	Query     string
	Status    SimilarityStatus
	Neighbors Neighbors
}
