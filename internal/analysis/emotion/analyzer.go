package emotion

import (
	model "github.com/zhouzirui/emotion-detector/backend/internal/model/emotion"
)

// Extract 从提供方返回的情绪映射中读取五种情绪得分，缺失的键按 0 处理，未知键忽略。
func Extract(raw map[string]float64) model.Scores {
	var scores model.Scores
	for _, label := range model.Labels {
		scores.Set(label, raw[string(label)])
	}
	return scores
}

// Dominant returns the label with the strictly highest score. Ties go to the
// label that comes first in model.Labels.
func Dominant(scores model.Scores) model.Label {
	return scores.Dominant()
}

// Analyze 将提供方的原始情绪映射归一化为完整的分析结果。
func Analyze(raw map[string]float64) model.Result {
	scores := Extract(raw)
	return model.Result{
		Scores:   &scores,
		Dominant: Dominant(scores),
	}
}
