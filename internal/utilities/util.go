// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/webmaster254/alx-project-nexus-sub000/internal/model"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse carries per field messages next to the error
type ValidationErrorResponse struct {
	Error   string              `json:"error"`
	Details map[string][]string `json:"details"`
}

// MessageResponse type for plain acknowledgements
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractUser extracts the user model from Gin context.
// It does not abort the request, it returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, errors.New("User information not provided")
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, errors.New("Failed to assert type")
	}
	return user, nil
}

// HashPassword hash password with bcrypt default cost
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether password match bcrypt hash
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CreateStaff creates a staff user with the given credentials.
func CreateStaff(db *gorm.DB, email, password, firstName, lastName string) (model.User, error) {
	hashedPassword, err := HashPassword(password)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	staff := model.User{
		Email:     strings.ToLower(email),
		Password:  hashedPassword,
		FirstName: firstName,
		LastName:  lastName,
		IsStaff:   true,
	}
	if err := db.Create(&staff).Error; err != nil {
		return model.User{}, fmt.Errorf("failed to create staff: %w", err)
	}
	return staff, nil
}

// BindingErrors converts a ShouldBind error into a field map keyed by json name.
// Errors that are not validation errors are reported under non_field_errors.
func BindingErrors(err error) map[string][]string {
	details := map[string][]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		details["non_field_errors"] = []string{err.Error()}
		return details
	}
	for _, fe := range verrs {
		field := jsonName(fe.Field())
		details[field] = append(details[field], bindingMessage(fe))
	}
	return details
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on %s validation.", fe.Tag())
	}
}

// jsonName turns a Go field name such as PasswordConfirm or JobID into password_confirm or job_id
func jsonName(field string) string {
	var b strings.Builder
	prevLower := false
	for _, r := range field {
		if r >= 'A' && r <= 'Z' {
			if prevLower {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
			prevLower = false
		} else {
			prevLower = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ValidationFailed writes a 400 with the field details of err
func ValidationFailed(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "Invalid request body", Details: BindingErrors(err)})
}
