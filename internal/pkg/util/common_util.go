package util

import (
	"strings"
)

// NormalizeEmail 去除首尾空白并转小写
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserKeys 返回用户的查找键，规范化邮箱在前，id 在后，空值会被跳过
func UserKeys(id, email string) []string {
	keys := make([]string, 0, 2)
	if e := NormalizeEmail(email); e != "" {
		keys = append(keys, e)
	}
	if id != "" && (len(keys) == 0 || keys[0] != id) {
		keys = append(keys, id)
	}
	return keys
}

// Ptr 取任意值的指针
func Ptr[T any](v T) *T {
	return &v
}
