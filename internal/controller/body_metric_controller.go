package controller

import (
	"errors"
	"strconv"
	"time"

	"fitquest_backend/internal/service"
	"fitquest_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type BodyMetricController struct {
	MetricService *service.BodyMetricService
}

func NewBodyMetricController(metricService *service.BodyMetricService) *BodyMetricController {
	return &BodyMetricController{MetricService: metricService}
}

// Create godoc
// @Summary 记录体测数据
// @Description multipart表单：date(RFC3339)、weightKg、bodyFatPct，可选photo进步照片
// @Tags 体测
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   date formData string true "测量时间 RFC3339"
// @Param   weightKg formData number true "体重(公斤)"
// @Param   bodyFatPct formData number false "体脂率(%)"
// @Param   photo formData file false "进步照片"
// @Success 201 {object} util.Response{data=model.BodyMetric}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/body-metrics [post]
func (c *BodyMetricController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	date, err := time.Parse(time.RFC3339, ctx.PostForm("date"))
	if err != nil {
		util.BadRequest(ctx, "date must be RFC3339")
		return
	}
	weightKg, err := strconv.ParseFloat(ctx.PostForm("weightKg"), 64)
	if err != nil || weightKg <= 0 {
		util.BadRequest(ctx, "weightKg must be a positive number")
		return
	}
	bodyFatPct, _ := strconv.ParseFloat(ctx.PostForm("bodyFatPct"), 64)

	// 照片可选
	photo, _ := ctx.FormFile("photo")

	metric, err := c.MetricService.Create(claims.UserID, date, weightKg, bodyFatPct, photo)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, metric)
}

// List godoc
// @Summary 体测记录分页列表
// @Tags 体测
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/body-metrics [get]
func (c *BodyMetricController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	page, limit := pagination(ctx)
	metrics, total, err := c.MetricService.List(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: metrics, Total: total, Page: page, Limit: limit})
}

// Delete godoc
// @Summary 删除体测记录
// @Tags 体测
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "体测ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/body-metrics/{id} [delete]
func (c *BodyMetricController) Delete(ctx *gin.Context) {
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

	if err := c.MetricService.Delete(claims.UserID, id); err != nil {
		switch {
		case errors.Is(err, util.ErrBodyMetricNotFound):
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
