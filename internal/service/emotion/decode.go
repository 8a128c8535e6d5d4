package emotion

import (
	"bytes"
	"encoding/json"
	"fmt"

	model "github.com/zhouzirui/emotion-detector/backend/internal/model/emotion"
)

// knownScores keeps the five tracked labels from a raw emotion mapping.
// Other keys are ignored whatever their value; a known key must hold a number.
func knownScores(raw map[string]json.RawMessage) (map[string]float64, error) {
	scores := make(map[string]float64, len(model.Labels))
	for _, label := range model.Labels {
		value, ok := raw[string(label)]
		if !ok || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			continue
		}

		var score float64
		if err := json.Unmarshal(value, &score); err != nil {
			return nil, fmt.Errorf("emotion %q is not a number: %w", label, err)
		}
		scores[string(label)] = score
	}
	return scores, nil
}
