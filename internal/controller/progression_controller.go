package controller

import (
	"errors"

	"fitquest_backend/internal/service"
	"fitquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressionController struct {
	ProgressionService *service.ProgressionService
}

func NewProgressionController(progressionService *service.ProgressionService) *ProgressionController {
	return &ProgressionController{ProgressionService: progressionService}
}

// Toggle godoc
// @Summary 启停进度系统
// @Description 首次调用创建进度记录并启用；再次调用切换开关。停用不清除已积累的XP
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.Progression}
// @Router /api/progression/toggle [post]
func (c *ProgressionController) Toggle(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	p, err := c.ProgressionService.Toggle(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// Calculate godoc
// @Summary 触发每日结算
// @Description 评估当天的训练与营养记录并结算XP。幂等：同一天重复调用不会重复加分
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.DailyCalculationResult}
// @Failure 409 {object} util.Response "进度系统未启用"
// @Router /api/progression/calculate [post]
func (c *ProgressionController) Calculate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ProgressionService.RunDailyCalculation(claims.UserID)
	if err != nil {
		respondProgressionError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Stats godoc
// @Summary 进度总览
// @Description 当前XP、段位、下一段位所需XP、连续打卡、赛季信息与历史赛季存档
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.ProgressionStats}
// @Failure 404 {object} util.Response "进度记录不存在"
// @Router /api/progression/stats [get]
func (c *ProgressionController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.ProgressionService.GetStats(claims.UserID)
	if err != nil {
		respondProgressionError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// History godoc
// @Summary XP流水分页
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/progression/history [get]
func (c *ProgressionController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	entries, total, err := c.ProgressionService.GetHistory(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: entries, Total: total, Page: page, Limit: limit})
}

// RestDay godoc
// @Summary 登记今天为休息日
// @Description 休息日豁免当天的漏记惩罚。幂等：同一天重复登记只记录一次
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.RestDayResult}
// @Failure 409 {object} util.Response "进度系统未启用"
// @Router /api/progression/rest-day [post]
func (c *ProgressionController) RestDay(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ProgressionService.LogRestDay(claims.UserID)
	if err != nil {
		respondProgressionError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Reset godoc
// @Summary 重置进度
// @Description 清零XP、段位与连续打卡并删除全部XP流水，不可恢复。历史最长连签与赛季存档保留
// @Tags 进度
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "进度记录不存在"
// @Router /api/progression/reset [post]
func (c *ProgressionController) Reset(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProgressionService.ResetProgress(claims.UserID); err != nil {
		respondProgressionError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AwardRequest 手动加减分请求（管理接口）
// swagger:model AwardRequest
type AwardRequest struct {
	UserID uint   `json:"userId" binding:"required"`
	Amount int    `json:"amount" binding:"required"`
	Reason string `json:"reason" binding:"required,max=255"`
}

// Award godoc
// @Summary 手动加减XP
// @Description 管理员为指定用户手动调整XP并记入流水
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body AwardRequest true "调整内容"
// @Success 200 {object} util.Response{data=service.ManualAwardResult}
// @Failure 403 {object} util.Response "权限不足"
// @Router /api/admin/progression/award [post]
func (c *ProgressionController) Award(ctx *gin.Context) {
	var req AwardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.ProgressionService.AwardManualXP(req.UserID, req.Amount, req.Reason)
	if err != nil {
		respondProgressionError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

func respondProgressionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrProgressionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrProgressionNotEnabled):
		util.Conflict(ctx, "progression is not enabled")
	case errors.Is(err, util.ErrUserNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrConcurrentModification):
		util.Conflict(ctx, "progression was modified concurrently, please retry")
	default:
		util.LogInternalError(ctx, err)
	}
}
