package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SupportedLocales lists the locales reports are labelled in. The first
// entry is the fallback of the matcher.
var SupportedLocales = []language.Tag{language.Hebrew, language.English}

var localeMatcher = language.NewMatcher(SupportedLocales)

// MatchLocale negotiates an Accept-Language value (or a single tag such as
// "en-US") against SupportedLocales. fallback is returned when nothing matches.
func MatchLocale(accept string, fallback language.Tag) language.Tag {
	if strings.TrimSpace(accept) == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, index, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return SupportedLocales[index]
}

func isHebrew(locale language.Tag) bool {
	base, _ := locale.Base()
	return base.String() == "he"
}

// LocaleCode returns the short code ("he" or "en") of a supported locale.
func LocaleCode(locale language.Tag) string {
	if isHebrew(locale) {
		return "he"
	}
	return "en"
}

// TextDirection returns "rtl" for Hebrew and "ltr" otherwise.
func TextDirection(locale language.Tag) string {
	if isHebrew(locale) {
		return "rtl"
	}
	return "ltr"
}

var monthNames = map[string][12]string{
	"en": {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	"he": {"ינו׳", "פבר׳", "מרץ", "אפר׳", "מאי", "יוני", "יולי", "אוג׳", "ספט׳", "אוק׳", "נוב׳", "דצמ׳"},
}

var weekLabelFormats = map[string]string{
	"en": "W%d %d",
	"he": "שבוע %d %d",
}

var metricLabels = map[string]map[MetricKey]string{
	"en": {
		MetricNewLeads:              "New leads",
		MetricConvertedLeads:        "Converted leads",
		MetricNewCustomers:          "New customers",
		MetricOrders:                "Orders",
		MetricRevenue:               "Revenue",
		MetricInvoicedAmount:        "Invoiced",
		MetricPaidInvoices:          "Paid invoices",
		MetricAppointments:          "Appointments",
		MetricCompletedAppointments: "Completed appointments",
	},
	"he": {
		MetricNewLeads:              "לידים חדשים",
		MetricConvertedLeads:        "לידים שהומרו",
		MetricNewCustomers:          "לקוחות חדשים",
		MetricOrders:                "הזמנות",
		MetricRevenue:               "הכנסות",
		MetricInvoicedAmount:        "חשבוניות שהופקו",
		MetricPaidInvoices:          "חשבוניות ששולמו",
		MetricAppointments:          "פגישות",
		MetricCompletedAppointments: "פגישות שהתקיימו",
	},
}

var timeRangeLabels = map[string]map[TimeRange]string{
	"en": {
		TimeRangeToday:       "Today",
		TimeRangeYesterday:   "Yesterday",
		TimeRangeThisWeek:    "This week",
		TimeRangeLastWeek:    "Last week",
		TimeRangeThisMonth:   "This month",
		TimeRangeLastMonth:   "Last month",
		TimeRangeThisQuarter: "This quarter",
		TimeRangeLastQuarter: "Last quarter",
		TimeRangeThisYear:    "This year",
		TimeRangeLastYear:    "Last year",
		TimeRangeCustom:      "Custom range",
	},
	"he": {
		TimeRangeToday:       "היום",
		TimeRangeYesterday:   "אתמול",
		TimeRangeThisWeek:    "השבוע",
		TimeRangeLastWeek:    "שבוע שעבר",
		TimeRangeThisMonth:   "החודש",
		TimeRangeLastMonth:   "חודש שעבר",
		TimeRangeThisQuarter: "הרבעון",
		TimeRangeLastQuarter: "רבעון קודם",
		TimeRangeThisYear:    "השנה",
		TimeRangeLastYear:    "שנה שעברה",
		TimeRangeCustom:      "טווח מותאם",
	},
}

var digestColumns = map[string][]string{
	"en": {"Metric", "Current", "Previous", "Change", "%"},
	"he": {"מדד", "נוכחי", "קודם", "שינוי", "%"},
}

var digestHeadings = map[string]string{
	"en": "Report summary: %s",
	"he": "סיכום דוח: %s",
}

// MetricLabel returns the display name of a metric.
func MetricLabel(key MetricKey, locale language.Tag) string {
	if label, ok := metricLabels[LocaleCode(locale)][key]; ok {
		return label
	}
	return string(key)
}

// TimeRangeLabel returns the display name of a selector.
func TimeRangeLabel(tr TimeRange, locale language.Tag) string {
	if label, ok := timeRangeLabels[LocaleCode(locale)][tr]; ok {
		return label
	}
	return string(tr)
}

// IntervalLabel renders an interval as "dd/mm/yyyy - dd/mm/yyyy".
func IntervalLabel(interval DateInterval) string {
	return interval.From.Format("02/01/2006") + " - " + interval.To.Format("02/01/2006")
}

// DigestHeading returns the localized digest title for a selector.
func DigestHeading(tr TimeRange, locale language.Tag) string {
	return fmt.Sprintf(digestHeadings[LocaleCode(locale)], TimeRangeLabel(tr, locale))
}

// DigestColumns returns the localized column headers of the digest table.
func DigestColumns(locale language.Tag) []string {
	return append([]string(nil), digestColumns[LocaleCode(locale)]...)
}

// FormatNumber renders a value with the locale's digit grouping. Monetary
// values keep two decimals, counts none.
func FormatNumber(value decimal.Decimal, monetary bool, locale language.Tag) string {
	printer := message.NewPrinter(locale)
	if !monetary {
		return printer.Sprintf("%d", value.Round(0).IntPart())
	}
	f, _ := value.Round(2).Float64()
	return printer.Sprintf("%.2f", f)
}

// FormatSigned is FormatNumber with an explicit plus sign for positive values.
func FormatSigned(value decimal.Decimal, monetary bool, locale language.Tag) string {
	formatted := FormatNumber(value, monetary, locale)
	if value.IsPositive() {
		return "+" + formatted
	}
	return formatted
}
