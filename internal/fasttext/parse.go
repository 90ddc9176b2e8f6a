package fasttext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Veraticus/critiq/internal/dataset"
	"github.com/Veraticus/critiq/internal/model"
)

const queryPrompt = "Query word?"

// parseTestOutput reads the N / P@k / R@k report printed by "fasttext test".
func parseTestOutput(out string) (model.Evaluation, error) {
	var ev model.Evaluation
	var haveN, haveP, haveR bool

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		key, value := fields[0], fields[len(fields)-1]

		switch {
		case key == "N" || strings.HasPrefix(line, "Number of examples"):
			n, err := strconv.Atoi(value)
			if err != nil {
				return model.Evaluation{}, fmt.Errorf("%w: sample count %q", ErrUnexpectedOutput, value)
			}
			ev.SampleCount = n
			haveN = true
		case strings.HasPrefix(key, "P@"):
			p, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return model.Evaluation{}, fmt.Errorf("%w: precision %q", ErrUnexpectedOutput, value)
			}
			ev.Precision = p
			haveP = true
		case strings.HasPrefix(key, "R@"):
			r, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return model.Evaluation{}, fmt.Errorf("%w: recall %q", ErrUnexpectedOutput, value)
			}
			ev.Recall = r
			haveR = true
		}
	}

	if !haveN || !haveP || !haveR {
		return model.Evaluation{}, fmt.Errorf("%w: incomplete test report %q", ErrUnexpectedOutput, strings.TrimSpace(out))
	}
	return ev, nil
}

// parsePrediction reads the first "__label__x prob" pair printed by "predict-prob".
func parsePrediction(out string) (model.Prediction, error) {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return model.Prediction{}, fmt.Errorf("%w: prediction %q", ErrUnexpectedOutput, line)
		}

		prob, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return model.Prediction{}, fmt.Errorf("%w: probability %q", ErrUnexpectedOutput, fields[1])
		}

		return model.Prediction{
			Label:      dataset.StripLabel(fields[0]),
			Confidence: clamp01(prob),
		}, nil
	}
	return model.Prediction{}, ErrNoPrediction
}

// parseNeighbors reads "token score" lines printed by "nn", ignoring the
// interactive prompts the tool writes between queries.
func parseNeighbors(out string) (model.Neighbors, error) {
	out = strings.ReplaceAll(out, queryPrompt, "\n")

	var neighbors model.Neighbors
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: neighbor line %q", ErrUnexpectedOutput, line)
		}

		score, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: neighbor score %q", ErrUnexpectedOutput, fields[1])
		}
		neighbors = append(neighbors, model.Neighbor{Token: fields[0], Score: score})
	}
	return neighbors, nil
}

// parseDict reads the "dump <model> dict" listing and keeps word entries.
func parseDict(out string) (Vocabulary, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("%w: empty dictionary dump", ErrUnexpectedOutput)
	}
	if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err != nil {
		return nil, fmt.Errorf("%w: dictionary size %q", ErrUnexpectedOutput, lines[0])
	}

	vocab := make(Vocabulary, len(lines)-1)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: dictionary entry %q", ErrUnexpectedOutput, line)
		}
		if fields[2] == "word" {
			vocab[fields[0]] = struct{}{}
		}
	}
	return vocab, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
