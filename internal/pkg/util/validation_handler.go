package util

import (
	"WorkUs/internal/model"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// role: 大小写与首尾空格不敏感的平台角色
	_ = validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, ok := model.ParseRole(fl.Field().String())
		return ok
	})
}

// ValidateDTO 返回第一个失败字段的说明，并保留 validator.ValidationErrors 以便响应层识别
func ValidateDTO(dto any) error {
	err := validate.Struct(dto)
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		first := vErrs[0]
		return fmt.Errorf("字段 [%s] 校验失败，规则 [%s]: %w", first.Field(), first.Tag(), vErrs)
	}
	return err
}
