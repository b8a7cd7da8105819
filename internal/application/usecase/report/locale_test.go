package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		accept string
		want   language.Tag
	}{
		{"", language.Hebrew},
		{"en-US,en;q=0.9", language.English},
		{"he-IL", language.Hebrew},
		{"fr-FR,en;q=0.5", language.English},
		{"fr-FR", language.Hebrew},
		{"%%%", language.Hebrew},
	}

	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchLocale(tt.accept, language.Hebrew))
		})
	}
}

func TestLocaleHelpers(t *testing.T) {
	assert.Equal(t, "he", LocaleCode(language.Hebrew))
	assert.Equal(t, "en", LocaleCode(language.English))
	assert.Equal(t, "en", LocaleCode(language.Und))
	assert.Equal(t, "rtl", TextDirection(language.Hebrew))

	assert.Equal(t, "Revenue", MetricLabel(MetricRevenue, language.English))
	assert.Equal(t, "הכנסות", MetricLabel(MetricRevenue, language.Hebrew))
	assert.Equal(t, "mystery", MetricLabel("mystery", language.English))
	assert.Equal(t, "Last quarter", TimeRangeLabel(TimeRangeLastQuarter, language.English))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "1,234,567", FormatNumber(decimal.NewFromInt(1234567), false, language.English))
	assert.Equal(t, "0", FormatNumber(decimal.Zero, false, language.English))
	assert.Equal(t, "+12", FormatSigned(decimal.NewFromInt(12), false, language.English))
	assert.Equal(t, "-12", FormatSigned(decimal.NewFromInt(-12), false, language.English))
}
