package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/errors"
	"github.com/Oliver-Lim-FullStackDev/mint-temp-sub001/types"
)

const ErrUndefinedErrorCode = -99

// ErrorDetail is an alias for types.ErrorDetail
// @Description Error payload details
type ErrorDetail = types.ErrorDetail

// ErrorResponse is an alias for types.ErrorResponse
// @Description Standardized error response
type ErrorResponse = types.ErrorResponse

// SuccessResponse is a type alias for types.SuccessResponse[T]
// @Description Standardized success response
type SuccessResponse[T any] = types.SuccessResponse[T]

// BaseResponse is a type alias for SuccessResponse[interface{}] for swagger
// @Description Standard API response wrapper
type BaseResponse = SuccessResponse[interface{}]

// Success sends a success response
func Success(c *gin.Context, statusCode int, data interface{}) {
	successResp := types.SuccessResponse[interface{}]{
		StatusCode: statusCode,
		IsSuccess:  true,
		Data:       data,
	}
	c.JSON(statusCode, successResp)
}

// OK sends a 200 OK response
func OK(c *gin.Context, data interface{}) {
	Success(c, http.StatusOK, data)
}

// Error sends an error response
func Error(c *gin.Context, statusCode int, err error) {
	var errorMsg string
	var errCode int
	if appErr, ok := err.(*errors.AppError); ok {
		errorMsg = appErr.Message
		errCode = appErr.Code
	} else {
		errorMsg = err.Error()
		errCode = ErrUndefinedErrorCode
	}

	errorResp := types.ErrorResponse{
		StatusCode: statusCode,
		IsSuccess:  false,
		Error: types.ErrorDetail{
			Timestamp:    time.Now().Format(time.RFC3339),
			Path:         c.Request.URL.Path,
			ErrorMessage: errorMsg,
			ErrorCode:    errCode,
		},
	}
	c.JSON(statusCode, errorResp)
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, err)
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(c *gin.Context, err error) {
	Error(c, http.StatusUnauthorized, err)
}

// InternalError sends a 500 Internal Server Error response
func InternalError(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, err)
}

// HandleAppError handles AppError and sends appropriate response
func HandleAppError(c *gin.Context, err error) {
	if appErr, ok := err.(*errors.AppError); ok {
		statusCode := errors.HTTPStatusFromCode(appErr.Code)
		Error(c, statusCode, appErr)
	} else {
		InternalError(c, err)
	}
}
