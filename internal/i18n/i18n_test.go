package i18n

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"salesdash/internal/model"
)

func TestLabels_Complete(t *testing.T) {
	t.Parallel()

	for _, lang := range []model.Language{model.LanguageRU, model.LanguageEN} {
		v := reflect.ValueOf(Labels(lang))
		for i := 0; i < v.NumField(); i++ {
			assert.NotEmpty(t, v.Field(i).String(), "%s.%s", lang, v.Type().Field(i).Name)
		}
	}
}

func TestLabels_Fallback(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Labels(model.LanguageRU), Labels("de"))
	assert.NotEqual(t, Labels(model.LanguageRU).UploadError, Labels(model.LanguageEN).UploadError)
}

// spaces 统一分组分隔符便于断言
func spaces(s string) string {
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(s)
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1 234 567", spaces(FormatNumber(1234567)))
	assert.Equal(t, "13,5", FormatNumber(13.5))
	assert.Equal(t, "0", FormatNumber(math.NaN()))
}

func TestFormatCurrency(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "27 900 000 ₸", spaces(FormatCurrency(27900000)))
	assert.Equal(t, "0 ₸", FormatCurrency(math.Inf(1)))
}
