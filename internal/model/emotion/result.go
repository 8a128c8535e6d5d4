package emotion

// Label 表示情绪提供方返回的情绪标签。
type Label string

const (
	Anger   Label = "anger"
	Disgust Label = "disgust"
	Fear    Label = "fear"
	Joy     Label = "joy"
	Sadness Label = "sadness"
)

// Labels is the canonical label order. Dominant selection breaks ties by it.
var Labels = [...]Label{Anger, Disgust, Fear, Joy, Sadness}

// Scores 保存五种情绪的得分，取值范围 [0, 1]。
type Scores struct {
	Anger   float64
	Disgust float64
	Fear    float64
	Joy     float64
	Sadness float64
}

// Get returns the score stored for label, or 0 for labels outside the closed set.
func (s Scores) Get(label Label) float64 {
	switch label {
	case Anger:
		return s.Anger
	case Disgust:
		return s.Disgust
	case Fear:
		return s.Fear
	case Joy:
		return s.Joy
	case Sadness:
		return s.Sadness
	default:
		return 0
	}
}

// Set stores value under label. Labels outside the closed set are ignored.
func (s *Scores) Set(label Label, value float64) {
	switch label {
	case Anger:
		s.Anger = value
	case Disgust:
		s.Disgust = value
	case Fear:
		s.Fear = value
	case Joy:
		s.Joy = value
	case Sadness:
		s.Sadness = value
	}
}

// Dominant returns the label with the strictly highest score. Ties go to the
// label that comes first in Labels.
func (s Scores) Dominant() Label {
	best := Labels[0]
	bestScore := s.Get(best)
	for _, label := range Labels[1:] {
		if v := s.Get(label); v > bestScore {
			best = label
			bestScore = v
		}
	}
	return best
}

// Valid reports whether label belongs to the closed label set.
func (l Label) Valid() bool {
	for _, known := range Labels {
		if l == known {
			return true
		}
	}
	return false
}

// Result 是一次情绪分析的输出。
//
// A zero Result is the "no analysis performed" sentinel: Scores is nil and
// Dominant is empty. A populated Result always carries both.
type Result struct {
	Scores   *Scores
	Dominant Label
}

// Empty returns the all-null result used for empty input and rejected text.
func Empty() Result {
	return Result{}
}

// IsEmpty reports whether r is the all-null result.
func (r Result) IsEmpty() bool {
	return r.Scores == nil || r.Dominant == ""
}
