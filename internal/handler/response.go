package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Jonatndm/API-Authenticate/internal/middleware"
	"github.com/Jonatndm/API-Authenticate/pkg/apierror"
)

// maxBodyBytes bounds request bodies; auth payloads are tiny.
const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type normalizer interface {
	Normalize()
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	middleware.WriteJSON(w, status, data)
}

func writeError(w http.ResponseWriter, err error) {
	middleware.WriteError(w, err)
}

// decodeJSON reads a single JSON object into dst and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apierror.BadRequest("request body is required", "")
		}
		return apierror.BadRequest("invalid JSON body", "").WithCause(err)
	}

	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}

	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return apierror.BadRequest("invalid request", "").WithCause(err)
		}

		reasons := make([]string, 0, len(fieldErrs))
		fields := make([]string, 0, len(fieldErrs))
		for _, fieldErr := range fieldErrs {
			field := strings.ToLower(fieldErr.Field())
			fields = append(fields, field)
			reasons = append(reasons, describeFieldError(field, fieldErr))
		}
		return apierror.BadRequest("invalid request", strings.Join(fields, ",")).WithErrors(reasons)
	}

	return nil
}

func describeFieldError(field string, fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
