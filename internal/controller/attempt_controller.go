package controller

import (
	"errors"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// SubmitRequest 整卷提交，键为题目ID
// swagger:model SubmitRequest
type SubmitRequest struct {
	Answers map[uint]string `json:"answers" binding:"required"`
}

// Submit godoc
// @Summary 提交测验答卷
// @Description 整卷评分并记录。任何一题缺答则整卷拒绝，前端应原样重新展示答卷
// @Tags 答卷
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body SubmitRequest true "题目ID到所选答案的映射"
// @Success 201 {object} util.Response{data=service.SubmitResult} "评分结果"
// @Failure 404 {object} util.Response "测验不存在"
// @Failure 422 {object} util.Response "存在未作答题目"
// @Router /api/quizzes/{id}/attempts [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	quizID, ok := quizIDParam(ctx)
	if !ok {
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	result, err := c.AttemptService.Submit(claims.UserID, quizID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAttemptIncomplete):
			util.UnprocessableEntity(ctx, "请完成所有题目后再提交")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, result)
}

// MyAttempts godoc
// @Summary 我的答卷历史
// @Description 按提交时间倒序返回当前学生的全部答卷
// @Tags 答卷
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]repository.AttemptWithQuiz} "成功"
// @Router /api/student/attempts [get]
func (c *AttemptController) MyAttempts(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	attempts, err := c.AttemptService.History(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}
