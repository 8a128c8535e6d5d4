package emotion

import (
	"encoding/json"
	"fmt"
)

type resultJSON struct {
	Anger           *float64 `json:"anger"`
	Disgust         *float64 `json:"disgust"`
	Fear            *float64 `json:"fear"`
	Joy             *float64 `json:"joy"`
	Sadness         *float64 `json:"sadness"`
	DominantEmotion *Label   `json:"dominant_emotion"`
}

// MarshalJSON renders the flat wire shape; the all-null result encodes every field as null.
func (r Result) MarshalJSON() ([]byte, error) {
	var out resultJSON
	if !r.IsEmpty() {
		s := *r.Scores
		dominant := r.Dominant
		out = resultJSON{
			Anger:           &s.Anger,
			Disgust:         &s.Disgust,
			Fear:            &s.Fear,
			Joy:             &s.Joy,
			Sadness:         &s.Sadness,
			DominantEmotion: &dominant,
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts the shape produced by MarshalJSON and rejects payloads
// whose dominant label is unknown, missing a score, or not the highest score.
func (r *Result) UnmarshalJSON(data []byte) error {
	var in resultJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	values := [...]*float64{in.Anger, in.Disgust, in.Fear, in.Joy, in.Sadness}

	if in.DominantEmotion == nil || *in.DominantEmotion == "" {
		for i, v := range values {
			if v != nil {
				return fmt.Errorf("score %q present without dominant_emotion", Labels[i])
			}
		}
		*r = Empty()
		return nil
	}

	dominant := *in.DominantEmotion
	if !dominant.Valid() {
		return fmt.Errorf("unknown dominant_emotion %q", dominant)
	}

	scores := &Scores{}
	for i, v := range values {
		if v == nil {
			return fmt.Errorf("score %q is null while dominant_emotion is set", Labels[i])
		}
		scores.Set(Labels[i], *v)
	}
	if want := scores.Dominant(); want != dominant {
		return fmt.Errorf("dominant_emotion %q does not match highest score %q", dominant, want)
	}

	*r = Result{Scores: scores, Dominant: dominant}
	return nil
}
