package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"devconnector/internal/apperr"
	"devconnector/internal/service"
)

// NewValidator reports fields by their JSON names. notblank rejects
// whitespace-only strings and skills rejects lists with no usable entry.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("skills", func(fl validator.FieldLevel) bool {
		return len(service.SplitSkills(fl.Field().String())) > 0
	})
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind decodes a JSON body into dst and validates it. An empty body
// decodes to the zero value so missing fields are itemized.
func (h *Handlers) bind(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.BadRequest("handlers.bind", "Invalid request body")
	}
	return h.validate(dst)
}

// validate turns validator failures into field errors. The client-facing
// text comes from the field's msg tag.
func (h *Handlers) validate(req interface{}) error {
	err := h.Validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("handlers.validate", err)
	}

	t := reflect.TypeOf(req)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Error()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if m := sf.Tag.Get("msg"); m != "" {
				msg = m
			}
		}
		fields = append(fields, apperr.FieldError{Msg: msg, Param: fe.Field(), Location: "body"})
	}
	return apperr.Validation("handlers.validate", fields...)
}
