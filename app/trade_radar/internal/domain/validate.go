package domain

import (
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// validate 共享的校验实例，自定义规则在 init 中注册
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	_ = validate.RegisterValidation("sector", validateSectorChars)
	_ = validate.RegisterValidation("username", validateUsernameChars)

	// 错误中的字段名使用 json 名称
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
}

// Validate 按 validate 标签校验结构体，失败时返回 validator.ValidationErrors
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// ValidateUsername 用户名必须非空、可打印，且不含空白和 '_'（'_' 是会话键的分隔符）
func ValidateUsername(name string) error {
	return validate.Var(name, "required,max=64,username")
}

// FirstInvalid 返回第一条校验失败的字段名和规则
func FirstInvalid(err error) (field, tag string, ok bool) {
	ves, isVE := err.(validator.ValidationErrors)
	if !isVE || len(ves) == 0 {
		return "", "", false
	}
	return ves[0].Field(), ves[0].Tag(), true
}

// validateSectorChars 只允许 ASCII 字母、数字、空格、'-' 和 '_'
func validateSectorChars(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == ' ', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

func validateUsernameChars(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r == '_' || unicode.IsSpace(r) || !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
