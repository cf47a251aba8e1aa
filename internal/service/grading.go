package service

import (
	"quizhub_backend/internal/model"
	"quizhub_backend/internal/util"
	"strings"
)

// AnswerResult 单题判定结果，按题目顺序与 AnswerRecord 一一对应
type AnswerResult struct {
	QuestionID     uint   `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
}

// GradeResult 整卷评分结果
type GradeResult struct {
	Score        float64        `json:"score"` // 百分比，计算过程不做四舍五入
	Passed       bool           `json:"passed"`
	EarnedPoints int            `json:"earnedPoints"`
	TotalPoints  int            `json:"totalPoints"`
	Answers      []AnswerResult `json:"answers"`
}

// Grade 对一次提交整卷评分。纯函数，相同输入必然得到相同输出。
//
// 先做完整性检查：任何一题缺答或答案为空白，整卷拒绝（ErrAttemptIncomplete），
// 不计算部分得分。判定采用精确字符串比较，不做大小写或空白归一化；
// true_false 题按 {"True","False"} 的字面值比较。及格线为闭区间（得分等于
// 及格线即通过）。
func Grade(questions []model.Question, answers map[uint]string, passingScore int) (*GradeResult, error) {
	for _, q := range questions {
		ans, ok := answers[q.ID]
		if !ok || strings.TrimSpace(ans) == "" {
			return nil, util.ErrAttemptIncomplete
		}
	}

	earned := 0
	total := 0
	results := make([]AnswerResult, 0, len(questions))

	for _, q := range questions {
		selected := answers[q.ID]
		isCorrect := selected == q.CorrectAnswer

		if isCorrect {
			earned += q.Points
		}
		total += q.Points

		results = append(results, AnswerResult{
			QuestionID:     q.ID,
			SelectedAnswer: selected,
			IsCorrect:      isCorrect,
		})
	}

	percentage := 0.0
	if total > 0 {
		percentage = float64(earned) / float64(total) * 100
	}

	return &GradeResult{
		Score:        percentage,
		Passed:       percentage >= float64(passingScore),
		EarnedPoints: earned,
		TotalPoints:  total,
		Answers:      results,
	}, nil
}
