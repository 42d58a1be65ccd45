package util

import "errors"

var (
	ErrUserNotFound           = errors.New("用户不存在")
	ErrEmailRegistered        = errors.New("该邮箱已被注册")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrWorkoutNotFound        = errors.New("workout not found")
	ErrMealLogNotFound        = errors.New("meal log not found")
	ErrBodyMetricNotFound     = errors.New("body metric not found")
	ErrProgressionNotFound    = errors.New("progression not found")
	ErrProgressionNotEnabled  = errors.New("progression not enabled")
	ErrConcurrentModification = errors.New("progression modified concurrently")
)
