package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"

	"storefront-api/internal/catalog"
	"storefront-api/internal/logger"
)

// ErrorResponse es el cuerpo de toda respuesta no 2xx. Error lleva el error
// del store y solo se incluye en los 500.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// bindFields decodifica el cuerpo como objeto JSON. Un cuerpo ausente se toma
// como objeto vacío para que el servicio lo reporte como vacío.
func bindFields(c *gin.Context) (bson.M, error) {
	var fields bson.M
	if err := c.ShouldBindJSON(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return bson.M{}, nil
		}
		return nil, err
	}
	return fields, nil
}

// writeError traduce un error del servicio a su código. failure es el mensaje
// del 500 y notFound el del 404.
func writeError(c *gin.Context, err error, failure, notFound string) {
	var stockErr *catalog.StockError

	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: stockErr.Error()})
	case errors.Is(err, catalog.ErrEmptyPayload):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Request body is empty"})
	case errors.Is(err, catalog.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: notFound})
	default:
		_ = c.Error(err)
		logger.Error(c.Request.Context()).Err(err).Str("path", c.FullPath()).Msg(failure)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: failure, Error: err.Error()})
	}
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Request body must be a JSON object", Error: err.Error()})
}
