package controller

import (
	"quizhub_backend/internal/service"
	"quizhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	QuizService    *service.QuizService
	UserService    *service.UserService
	AttemptService *service.AttemptService
}

func NewDashboardController(quizService *service.QuizService, userService *service.UserService, attemptService *service.AttemptService) *DashboardController {
	return &DashboardController{
		QuizService:    quizService,
		UserService:    userService,
		AttemptService: attemptService,
	}
}

// AdminDashboard godoc
// @Summary 管理员工作台
// @Description 返回自己创建的测验与用户列表
// @Tags 工作台
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/admin/dashboard [get]
func (c *DashboardController) AdminDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	quizzes, err := c.QuizService.ListByOwner(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	users, total, err := c.UserService.GetUsers(1, 100, "", "")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"quizzes":    quizzes,
		"users":      users,
		"totalUsers": total,
	})
}

// StudentDashboard godoc
// @Summary 学生工作台
// @Description 返回测验目录与自己的答卷历史（最新在前）
// @Tags 工作台
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/student/dashboard [get]
func (c *DashboardController) StudentDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	quizzes, err := c.QuizService.ListCatalog(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	attempts, err := c.AttemptService.History(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"quizzes":  quizzes,
		"attempts": attempts,
	})
}
