package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	LocaleEN = "en"
	LocaleZH = "zh-CN"

	// DefaultLocale 默认语言
	DefaultLocale = LocaleEN
)

// ResolveLocale 从请求头解析语言，优先 X-Locale，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if explicit := strings.TrimSpace(c.GetHeader("X-Locale")); explicit != "" {
		return NormalizeLocale(explicit)
	}
	header := strings.TrimSpace(c.GetHeader("Accept-Language"))
	if header == "" {
		return DefaultLocale
	}
	first := strings.Split(header, ",")[0]
	first = strings.Split(first, ";")[0]
	return NormalizeLocale(first)
}

// NormalizeLocale 归一化语言标识，未知语言回退到默认语言
func NormalizeLocale(locale string) string {
	l := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case strings.HasPrefix(l, "zh"):
		return LocaleZH
	case strings.HasPrefix(l, "en"):
		return LocaleEN
	default:
		return DefaultLocale
	}
}

// T 翻译消息 key，未命中时依次回退默认语言与 key 本身
func T(locale, key string) string {
	if catalog, ok := messages[NormalizeLocale(locale)]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

// Has 判断 key 是否存在于默认语言
func Has(key string) bool {
	_, ok := messages[DefaultLocale][key]
	return ok
}
