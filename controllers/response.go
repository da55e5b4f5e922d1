package controllers

import (
	"errors"
	"net/http"

	"github.com/HSouheill/shop_backend/apperrors"
	"github.com/HSouheill/shop_backend/middleware"
	"github.com/HSouheill/shop_backend/models"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// bindAndValidate decodes the request into req and runs its validate tags.
// Both failures are reported as validation errors.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperrors.Validation("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperrors.Validation("Invalid value for %s (%s)", verrs[0].Field(), verrs[0].Tag())
		}
		return apperrors.Validation("%s", err.Error())
	}
	return nil
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse writes err as the response envelope. Unclassified errors
// become a generic 500 and are logged.
func errorResponse(c echo.Context, log logrus.FieldLogger, err error) error {
	status := statusFor(apperrors.KindOf(err))
	message := apperrors.Message(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
		}).Error("Request failed")
		message = "Internal server error"
	}
	return c.JSON(status, models.Response{
		Status:  status,
		Message: message,
	})
}

// HTTPErrorHandler renders errors returned by handlers and middleware in
// the same envelope as handler responses.
func HTTPErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			message := http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok {
				message = m
			}
			if c.Request().Method == http.MethodHead {
				err = c.NoContent(he.Code)
			} else {
				err = c.JSON(he.Code, models.Response{Status: he.Code, Message: message})
			}
			if err != nil {
				log.WithError(err).Warn("Failed to write error response")
			}
			return
		}

		if werr := errorResponse(c, log, err); werr != nil {
			log.WithError(werr).Warn("Failed to write error response")
		}
	}
}

// callerID returns the authenticated user's id. The JWT gate guarantees a
// token; a token whose subject is not an ObjectID is rejected here.
func callerID(c echo.Context) (primitive.ObjectID, error) {
	id, err := middleware.ExtractUserID(c)
	if err != nil {
		return primitive.NilObjectID, apperrors.Unauthorized("Invalid user ID in token")
	}
	return id, nil
}
