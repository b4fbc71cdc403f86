// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package validation validates request bodies with struct tags.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/churchnav/internal/model"
	"github.com/olegiv/churchnav/internal/util"
)

var (
	once     sync.Once
	validate *validator.Validate
)

// FieldError is a single failed rule.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// Message renders the failure for API clients.
func (f FieldError) Message() string {
	switch f.Tag {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + f.Param + " characters"
	case "min":
		return "must have at least " + f.Param + " entries"
	case "gte":
		return "must be at least " + f.Param
	case "notnull":
		return "must not be null"
	case "kebab":
		return "must be kebab-case"
	case "slug":
		return "must be a lowercase slug"
	case "location":
		return "must be one of HEADER, FOOTER, MOBILE, SIDEBAR"
	case "uuid":
		return "must be a UUID"
	case "unique":
		return "must not contain duplicates"
	case "oneof":
		return "must be one of " + f.Param
	default:
		return "failed on " + f.Tag
	}
}

// Errors collects every failed rule of one struct.
type Errors []FieldError

func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.Field + " " + fe.Message()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match model.ErrValidation.
func (e Errors) Unwrap() error {
	return model.ErrValidation
}

// Fields returns the failures keyed by field name. The first failure of a
// field wins.
func (e Errors) Fields() map[string]string {
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, ok := out[fe.Field]; !ok {
			out[fe.Field] = fe.Message()
		}
	}
	return out
}

// Struct validates s against its validate tags. Failures are returned as
// Errors; anything else the validator reports is returned unchanged.
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(Errors, 0, len(ve))
	for _, fe := range ve {
		out = append(out, FieldError{
			Field: fieldPath(fe.Namespace()),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return out
}

// Details flattens any validation error into per-field messages, or nil
// when err carries none.
func Details(err error) map[string]string {
	var ve Errors
	if errors.As(err, &ve) {
		return ve.Fields()
	}
	return nil
}

// patchRules holds the rules of the item fields that have no create
// counterpart. Every other field is checked with its ItemInput tag.
var patchRules = map[string]string{
	"sortOrder": "gte=0",
}

// notNullable lists the patch fields an update may not clear.
var notNullable = map[string]bool{
	"label":        true,
	"openInNewTab": true,
	"isExternal":   true,
	"isVisible":    true,
	"sortOrder":    true,
}

// createRules maps the JSON name of every ItemInput field to its validate tag.
var createRules = sync.OnceValue(func() map[string]string {
	t := reflect.TypeFor[model.ItemInput]()
	rules := make(map[string]string, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		if tag := f.Tag.Get("validate"); tag != "" {
			rules[jsonName(f)] = tag
		}
	}
	return rules
})

// Patch validates the fields present in p with the rules the same fields
// have on create, so an update cannot store what a create would reject.
func Patch(p model.ItemPatch) error {
	var out Errors
	v := reflect.ValueOf(p)
	t := v.Type()
	for i := range t.NumField() {
		name := jsonName(t.Field(i))
		opt := v.Field(i)
		if !opt.FieldByName("Set").Bool() {
			continue
		}
		value := opt.FieldByName("Value")
		if value.IsNil() {
			if notNullable[name] {
				out = append(out, FieldError{Field: name, Tag: "notnull"})
			}
			continue
		}

		rule, ok := patchRules[name]
		if !ok {
			rule = createRules()[name]
		}
		if rule == "" {
			continue
		}
		field := value.Elem().Interface()
		if s, ok := field.(string); ok {
			field = strings.TrimSpace(s)
		}

		err := get().Var(field, rule)
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			for _, fe := range ve {
				out = append(out, FieldError{Field: name, Tag: fe.Tag(), Param: fe.Param()})
			}
		} else if err != nil {
			return err
		}
	}
	if len(out) > 0 {
		return out
	}
	return nil
}

func jsonName(fld reflect.StructField) string {
	name := fld.Tag.Get("json")
	if comma := strings.Index(name, ","); comma != -1 {
		name = name[:comma]
	}
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}

// fieldPath drops the struct name from a namespace such as
// "ItemInput.groupLayouts[Quick Links]".
func fieldPath(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonName)
		_ = validate.RegisterValidation("kebab", func(fl validator.FieldLevel) bool {
			return model.IsKebabCase(fl.Field().String())
		})
		_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return util.IsValidSlug(fl.Field().String())
		})
		_ = validate.RegisterValidation("location", func(fl validator.FieldLevel) bool {
			return model.Location(fl.Field().String()).IsValid()
		})
	})
	return validate
}
