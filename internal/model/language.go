package model

// Language 界面语言
type Language string

const (
	LanguageRU Language = "ru"
	LanguageEN Language = "en"
)

// Valid 是否为支持的语言
func (l Language) Valid() bool {
	return l == LanguageRU || l == LanguageEN
}

// Toggle 在 ru/en 之间切换
func (l Language) Toggle() Language {
	if l == LanguageEN {
		return LanguageRU
	}
	return LanguageEN
}

// ParseLanguage 解析语言，无法识别时回退为 ru
func ParseLanguage(s string) Language {
	l := Language(s)
	if l.Valid() {
		return l
	}
	return LanguageRU
}
