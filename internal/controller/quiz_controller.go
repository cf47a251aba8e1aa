package controller

import (
	"errors"
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService   *service.QuizService
	ExportService *service.ExportService
}

func NewQuizController(quizService *service.QuizService, exportService *service.ExportService) *QuizController {
	return &QuizController{
		QuizService:   quizService,
		ExportService: exportService,
	}
}

func quizIDParam(ctx *gin.Context) (uint, bool) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		util.BadRequest(ctx, "无效的测验ID")
		return 0, false
	}
	return uint(id), true
}

// CreateQuiz godoc
// @Summary 创建测验
// @Description 创建测验及其题目，题目类型与选项在入库前校验
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.QuizCreateReq true "测验信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "校验失败"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/admin/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	var req service.QuizCreateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	quiz, err := c.QuizService.CreateQuiz(claims.UserID, req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, gin.H{"id": quiz.ID})
}

// GetQuizAdmin godoc
// @Summary 管理员查看测验详情
// @Description 返回题目（含正确答案）与最近答卷。他人的测验一律按不存在处理
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.AdminQuizDetail} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/quizzes/{id} [get]
func (c *QuizController) GetQuizAdmin(ctx *gin.Context) {
	id, ok := quizIDParam(ctx)
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	detail, err := c.QuizService.GetQuizForAdmin(claims.UserID, id)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Tags 测验管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Param   body body service.QuizUpdateReq true "更新字段"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	id, ok := quizIDParam(ctx)
	if !ok {
		return
	}

	var req service.QuizUpdateReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	claims := util.GetUserFromContext(ctx)
	quiz, err := c.QuizService.UpdateQuiz(claims.UserID, id, req)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Description 级联删除题目、答卷与作答记录
// @Tags 测验管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	id, ok := quizIDParam(ctx)
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	if err := c.QuizService.DeleteQuiz(claims.UserID, id); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// ExportAttempts godoc
// @Summary 导出测验答卷CSV
// @Description 导出该测验全部答卷（用户名、邮箱、得分、是否通过、时间）
// @Tags 测验管理
// @Produce  text/csv
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {string} string "CSV文件"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/quizzes/{id}/export [get]
func (c *QuizController) ExportAttempts(ctx *gin.Context) {
	id, ok := quizIDParam(ctx)
	if !ok {
		return
	}

	claims := util.GetUserFromContext(ctx)
	filename, data, err := c.ExportService.ExportAttemptsCSV(claims.UserID, id)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(200, "text/csv", data)
}

// GetQuizStudent godoc
// @Summary 查看测验（学生视图）
// @Description 返回题目但不包含正确答案
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.StudentQuizDetail} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuizStudent(ctx *gin.Context) {
	id, ok := quizIDParam(ctx)
	if !ok {
		return
	}

	detail, err := c.QuizService.GetQuizForStudent(id)
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}
