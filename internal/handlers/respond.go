package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/proplan-dev/proplan/internal/services"
)

func respondError(ctx *gin.Context, err error) {
	var se *services.Error
	if errors.As(err, &se) {
		if se.Status == http.StatusUnauthorized {
			ctx.Header("WWW-Authenticate", "Bearer")
		}
		ctx.JSON(se.Status, gin.H{"error": se.Message})
		return
	}

	log.Printf("Internal error: %v", err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
