package request

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nekogravitycat/conference-booking-backend/internal/pkg/apperror"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListParams carries the pagination query parameters shared by list endpoints.
type ListParams struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// Normalize fills in default paging values.
func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// BindError converts a gin binding failure into a validation AppError.
// Fields failing "required" are reported under missing_fields, every other
// failing field under invalid_fields.
func BindError(err error) *apperror.AppError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.Wrap(err, http.StatusBadRequest, "invalid request body")
	}

	var missing []string
	invalid := map[string]string{}
	for _, fe := range verrs {
		name := fieldName(fe)
		if fe.Tag() == "required" {
			missing = append(missing, name)
			continue
		}
		invalid[name] = describe(fe)
	}

	details := map[string]any{}
	msg := "invalid request"
	if len(missing) > 0 {
		details["missing_fields"] = missing
		msg = "missing required fields: " + strings.Join(missing, ", ")
	}
	if len(invalid) > 0 {
		details["invalid_fields"] = invalid
		if len(missing) == 0 {
			msg = "invalid request fields"
		}
	}
	return apperror.Validation(msg).WithDetails(details)
}

// fieldName converts a struct field name such as "RoomID" into its json form "room_id".
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(name[i-1] >= 'A' && name[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "uuid":
		return "must be a valid UUID"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
