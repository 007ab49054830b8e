package selector

import (
	"fmt"
	"time"

	"github.com/eugenenazirov/carton-fit/internal/packer"
)

// Evaluation is the packing outcome for one candidate container.
type Evaluation struct {
	Container   packer.Container
	Result      packer.Result
	Utilization float64
}

// Selection holds every evaluation in input order and the best fit, if any.
// Best is nil when no container admits a single item.
type Selection struct {
	Item        packer.Item
	Best        *Evaluation
	BestIndex   int
	Evaluations []Evaluation
}

// NoFitMessage is reported when no container admits a single item.
const NoFitMessage = "No suitable container found."

// Found reports whether a best-fit container exists.
func (s Selection) Found() bool {
	return s.Best != nil
}

// Summary renders the outcome as a single sentence.
func (s Selection) Summary() string {
	if s.Best == nil {
		return NoFitMessage
	}
	return fmt.Sprintf("The best fit container is %s with a volume utilization of %.2f%%",
		s.Best.Container.Label, s.Best.Utilization)
}

// Recorder receives evaluation and selection measurements.
type Recorder interface {
	ObserveEvaluation(placed int, utilization float64, elapsed time.Duration)
	ObserveSelection(found bool, candidates int, elapsed time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveEvaluation(int, float64, time.Duration) {}

func (nopRecorder) ObserveSelection(bool, int, time.Duration) {}
