package controller

import (
	"errors"
	"time"

	"fitquest_backend/internal/model"
	"fitquest_backend/internal/service"
	"fitquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NutritionController struct {
	NutritionService *service.NutritionService
}

func NewNutritionController(nutritionService *service.NutritionService) *NutritionController {
	return &NutritionController{NutritionService: nutritionService}
}

// MealRequest 餐食记录请求
// swagger:model MealRequest
type MealRequest struct {
	Date  string                  `json:"date" binding:"required,len=10"`
	Type  string                  `json:"type" binding:"required,oneof=breakfast lunch dinner snack"`
	Items []service.FoodItemInput `json:"items" binding:"required,min=1,dive"`
}

// LogMeal godoc
// @Summary 记录一餐
// @Tags 营养
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body MealRequest true "餐食内容"
// @Success 201 {object} util.Response{data=model.MealLog}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/meals [post]
func (c *NutritionController) LogMeal(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req MealRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		util.BadRequest(ctx, "date must be YYYY-MM-DD")
		return
	}

	meal, err := c.NutritionService.LogMeal(claims.UserID, req.Date, model.MealType(req.Type), req.Items)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, meal)
}

// ListMeals godoc
// @Summary 按日期查询餐食
// @Tags 营养
// @Produce  json
// @Security BearerAuth
// @Param   date query string true "日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=[]model.MealLog}
// @Router /api/meals [get]
func (c *NutritionController) ListMeals(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	date := ctx.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		util.BadRequest(ctx, "date must be YYYY-MM-DD")
		return
	}

	meals, err := c.NutritionService.ListMealsByDate(claims.UserID, date)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, meals)
}

// DeleteMeal godoc
// @Summary 删除一餐记录
// @Tags 营养
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "餐食ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/meals/{id} [delete]
func (c *NutritionController) DeleteMeal(ctx *gin.Context) {
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

	if err := c.NutritionService.DeleteMeal(claims.UserID, id); err != nil {
		switch {
		case errors.Is(err, util.ErrMealLogNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// WaterRequest 饮水记录请求
// swagger:model WaterRequest
type WaterRequest struct {
	Date     string `json:"date" binding:"required,len=10"`
	AmountML int    `json:"amountMl" binding:"required,min=1"`
}

// AddWater godoc
// @Summary 记录饮水
// @Tags 营养
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body WaterRequest true "饮水量(毫升)"
// @Success 201 {object} util.Response{data=object} "返回当日累计"
// @Router /api/water [post]
func (c *NutritionController) AddWater(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req WaterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		util.BadRequest(ctx, "date must be YYYY-MM-DD")
		return
	}

	total, err := c.NutritionService.AddWater(claims.UserID, req.Date, req.AmountML)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"date": req.Date, "totalMl": total})
}

// DailySummary godoc
// @Summary 当日营养汇总
// @Description 当日全部餐食的宏量营养汇总、目标达成情况与评分预览
// @Tags 营养
// @Produce  json
// @Security BearerAuth
// @Param   date query string true "日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=service.DailySummary}
// @Router /api/nutrition/summary [get]
func (c *NutritionController) DailySummary(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	date := ctx.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		util.BadRequest(ctx, "date must be YYYY-MM-DD")
		return
	}

	summary, err := c.NutritionService.GetDailySummary(claims.UserID, date)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}
