package utilities

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// BearerSchema prefixes the Authorization header value
const BearerSchema = "Bearer "

// ExtractBearerToken returns the token of the Authorization header
func ExtractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")

	if len(authHeader) <= len(BearerSchema) || !strings.EqualFold(authHeader[:len(BearerSchema)], BearerSchema) {
		return "", fmt.Errorf("Invalid authorization header")
	}

	return strings.TrimSpace(authHeader[len(BearerSchema):]), nil
}

// HasBearerToken reports whether the request carries any Authorization header
func HasBearerToken(c *gin.Context) bool {
	return c.GetHeader("Authorization") != ""
}
