// Package report renders pipeline results for the console.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Veraticus/critiq/internal/cli"
	"github.com/Veraticus/critiq/internal/model"
)

// NotInVocabularyMessage is shown when a neighbour query misses the vocabulary.
const NotInVocabularyMessage = "is not in the vocabulary"

// Dataset prints the record count and label distribution.
func Dataset(w io.Writer, ds *model.Dataset) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Total records: %d\n", ds.Len())
	b.WriteString("Label distribution:")
	for _, lc := range ds.LabelCounts() {
		b.WriteString("\n")
		b.WriteString(cli.RenderRow([]int{2, 16, 8}, "", lc.Label, strconv.Itoa(lc.Count)))
	}

	_, err := fmt.Fprintln(w, cli.RenderBox("Dataset", b.String()))
	return err
}

// Split prints the size of each subset and where they were written.
func Split(w io.Writer, split model.Split, trainPath, testPath string) error {
	_, err := fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf(
		"Wrote %d training lines to %s and %d test lines to %s",
		len(split.Train), trainPath, len(split.Test), testPath)))
	return err
}

// Evaluation prints the library's test triple as reported, without rounding.
func Evaluation(w io.Writer, ev model.Evaluation) error {
	content := fmt.Sprintf("Samples:   %d\nPrecision: %s\nRecall:    %s",
		ev.SampleCount, verbatim(ev.Precision), verbatim(ev.Recall))
	_, err := fmt.Fprintln(w, cli.RenderBox(cli.ChartIcon+" Evaluation", content))
	return err
}

// Prediction prints the predicted label with a two-decimal confidence.
func Prediction(w io.Writer, text string, p model.Prediction) error {
	_, err := fmt.Fprintf(w, "%s %q → %s (confidence %.2f)\n",
		cli.BoldStyle.Render("Prediction:"), text, p.Label, p.Confidence)
	return err
}

// Similarity prints ranked neighbours with four-decimal scores, or the
// reason there are none.
func Similarity(w io.Writer, res model.SimilarityResult) error {
	var err error
	switch res.Status {
	case model.StatusFound:
		var b strings.Builder
		fmt.Fprintf(&b, "Nearest neighbors of %q:", res.Query)
		for i, nb := range res.Neighbors {
			b.WriteString("\n")
			b.WriteString(cli.RenderRow([]int{6, 24, 8},
				fmt.Sprintf("%3d.", i+1), nb.Token, fmt.Sprintf("%.4f", nb.Score)))
		}
		_, err = fmt.Fprintln(w, b.String())
	case model.StatusNotInVocabulary:
		_, err = fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("%q %s", res.Query, NotInVocabularyMessage)))
	default:
		_, err = fmt.Fprintln(w, cli.FormatError(fmt.Sprintf("Neighbor lookup for %q failed: %v", res.Query, res.Err)))
	}
	return err
}

// History prints recent runs, newest first.
func History(w io.Writer, runs []model.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, cli.SubtleStyle.Render("No runs recorded yet"))
		return err
	}

	widths := []int{10, 18, 11, 9, 11, 11}
	lines := []string{cli.BoldStyle.Render(cli.RenderRow(widths,
		"ID", "Started", "Status", "Records", "Precision", "Recall"))}

	for _, run := range runs {
		precision, recall := "-", "-"
		if run.Evaluation != nil {
			precision = fmt.Sprintf("%.3f", run.Evaluation.Precision)
			recall = fmt.Sprintf("%.3f", run.Evaluation.Recall)
		}
		lines = append(lines, cli.RenderRow(widths,
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04"),
			statusText(run.Status),
			strconv.Itoa(run.RecordCount),
			precision,
			recall,
		))
	}

	_, err := fmt.Fprintln(w, cli.RenderBox("Run history", strings.Join(lines, "\n")))
	return err
}

// verbatim prints the shortest representation that parses back to v.
func verbatim(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// RunDetail prints one run with its settings, evaluation and predictions.
func RunDetail(w io.Writer, run *model.Run, preds []model.PredictionRecord) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Status:   %s\n", statusText(run.Status))
	fmt.Fprintf(&b, "Started:  %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Input:    %s (%d records)\n", run.InputPath, run.RecordCount)
	fmt.Fprintf(&b, "Split:    %d train / %d test (ratio %s, seed %d)\n",
		run.TrainCount, run.TestCount, verbatim(run.Split.Ratio), run.Split.Seed)
	fmt.Fprintf(&b, "Training: lr %s, %d epochs\n", verbatim(run.Params.LearningRate), run.Params.Epochs)
	fmt.Fprintf(&b, "Model:    %s", run.ModelPath)
	if run.Evaluation != nil {
		fmt.Fprintf(&b, "\nScores:   P@k %s, R@k %s on %d samples",
			verbatim(run.Evaluation.Precision), verbatim(run.Evaluation.Recall), run.Evaluation.SampleCount)
	}
	if run.Error != "" {
		b.WriteString("\n" + cli.ErrorStyle.Render("Error:    "+run.Error))
	}

	if _, err := fmt.Fprintln(w, cli.RenderBox("Run "+run.ID, b.String())); err != nil {
		return err
	}

	if len(preds) == 0 {
		_, err := fmt.Fprintln(w, cli.SubtleStyle.Render("No predictions recorded for this run"))
		return err
	}
	for _, pr := range preds {
		if err := Prediction(w, pr.Text, pr.Prediction); err != nil {
			return err
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func statusText(status model.RunStatus) string {
	switch status {
	case model.RunStatusSucceeded:
		return cli.SuccessStyle.Render(strings.ToLower(string(status)))
	case model.RunStatusFailed:
		return cli.ErrorStyle.Render(strings.ToLower(string(status)))
	default:
		return strings.ToLower(string(status))
	}
}
