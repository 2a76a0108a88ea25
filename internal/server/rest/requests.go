package rest

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=5,maxbytes=72"`
}

func (r *signupRequest) normalize() {
	r.Email = normalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	r.Password = strings.TrimSpace(r.Password)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *loginRequest) normalize() {
	r.Email = normalizeEmail(r.Email)
}

type taskRequest struct {
	Name        string `json:"name" validate:"required,min=5"`
	Description string `json:"description" validate:"required,min=5"`
	Status      string `json:"status" validate:"required,min=4"`
}

func (r *taskRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Status = strings.TrimSpace(r.Status)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type normalizer interface {
	normalize()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt rejects passwords over 72 bytes; "max" counts runes.
	if err := v.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}
	return v
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

// bind decodes the JSON body into req, normalises it and checks its
// validation tags. Failures are returned as *common.ValidationError.
func bind[T any, PT interface {
	*T
	normalizer
}](c *fiber.Ctx) (*T, error) {
	req := PT(new(T))
	if err := c.BodyParser(req); err != nil {
		return nil, &common.ValidationError{Fields: []common.FieldError{
			{Field: "body", Message: "must be a valid JSON object"},
		}}
	}
	req.normalize()
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return (*T)(req), nil
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]common.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		f := common.FieldError{Field: fe.Field(), Message: fieldMessage(fe)}
		if fe.Field() != "password" {
			f.Value = fe.Value()
		}
		fields = append(fields, f)
	}
	return &common.ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", fe.Param())
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes long", fe.Param())
	default:
		return "is invalid"
	}
}
