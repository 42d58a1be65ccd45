package controller

import (
	"errors"
	"strconv"
	"time"

	"fitquest_backend/internal/service"
	"fitquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type WorkoutController struct {
	WorkoutService *service.WorkoutService
}

func NewWorkoutController(workoutService *service.WorkoutService) *WorkoutController {
	return &WorkoutController{WorkoutService: workoutService}
}

// WorkoutRequest 训练记录请求
// swagger:model WorkoutRequest
type WorkoutRequest struct {
	Date      time.Time               `json:"date" binding:"required"`
	Notes     string                  `json:"notes"`
	Exercises []service.ExerciseInput `json:"exercises" binding:"required,min=1,dive"`
}

// Create godoc
// @Summary 记录一次训练
// @Tags 训练
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body WorkoutRequest true "训练内容"
// @Success 201 {object} util.Response{data=model.Workout}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/workouts [post]
func (c *WorkoutController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req WorkoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	workout, err := c.WorkoutService.Create(claims.UserID, req.Date, req.Notes, req.Exercises)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, workout)
}

// List godoc
// @Summary 训练记录分页列表
// @Tags 训练
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/workouts [get]
func (c *WorkoutController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	workouts, total, err := c.WorkoutService.List(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: workouts, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary 单条训练记录
// @Tags 训练
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "训练ID"
// @Success 200 {object} util.Response{data=model.Workout}
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/workouts/{id} [get]
func (c *WorkoutController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := pathID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	workout, err := c.WorkoutService.Get(claims.UserID, id)
	if err != nil {
		respondWorkoutError(ctx, err)
		return
	}
	util.Success(ctx, workout)
}

// Update godoc
// @Summary 更新训练记录
// @Description 整体替换日期、备注与动作列表
// @Tags 训练
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "训练ID"
// @Param   body body WorkoutRequest true "训练内容"
// @Success 200 {object} util.Response{data=model.Workout}
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/workouts/{id} [put]
func (c *WorkoutController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := pathID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req WorkoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	workout, err := c.WorkoutService.Update(claims.UserID, id, req.Date, req.Notes, req.Exercises)
	if err != nil {
		respondWorkoutError(ctx, err)
		return
	}
	util.Success(ctx, workout)
}

// Delete godoc
// @Summary 删除训练记录
// @Tags 训练
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "训练ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/workouts/{id} [delete]
func (c *WorkoutController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := pathID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.WorkoutService.Delete(claims.UserID, id); err != nil {
		respondWorkoutError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

func respondWorkoutError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrWorkoutNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	default:
		util.LogInternalError(ctx, err)
	}
}

func pathID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	return uint(id), err
}

func pagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
