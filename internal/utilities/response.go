package utilities

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgForeignKeyViolation is the SQLSTATE of a foreign key violation
const pgForeignKeyViolation = "23503"

// ParamID reads the numeric path parameter name. On failure it writes a 404 and returns false.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found."})
		return 0, false
	}
	return uint(id), true
}

// RespondDBError maps err to 404 when the record is missing and 500 otherwise
func RespondDBError(c *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("%s not found", what)})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: fmt.Sprintf("Database error: %s", err.Error()),
	})
}

// IsForeignKeyViolation reports whether err was raised by a foreign key constraint,
// on postgres through the pgconn error code and on sqlite through its message.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// QueryBool parses the boolean query parameter name, the second result is false when it is absent or invalid
func QueryBool(c *gin.Context, name string) (bool, bool) {
	b, err := strconv.ParseBool(c.Query(name))
	if err != nil {
		return false, false
	}
	return b, true
}
