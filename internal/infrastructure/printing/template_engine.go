package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TemplateEngine renders the embedded document templates with snapshot data.
// It uses Go's html/template package with custom formatting functions.
type TemplateEngine struct {
	templates *template.Template
}

// NewTemplateEngine parses the embedded templates with the formatting funcMap
func NewTemplateEngine() (*TemplateEngine, error) {
	funcMap := template.FuncMap{
		"formatMoney":  formatMoney,
		"formatDate":   formatDate,
		"formatClock":  formatClock,
		"formatPeriod": formatPeriod,
		"statusText":   statusText,
		"upper":        strings.ToUpper,
		"default":      defaultFunc,
	}

	templates, err := template.New("documents").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse embedded templates", err)
	}

	return &TemplateEngine{templates: templates}, nil
}

// Render executes the named template with the provided data
func (e *TemplateEngine) Render(name string, data interface{}) (string, error) {
	tmpl := e.templates.Lookup(name)
	if tmpl == nil {
		return "", NewRenderError(ErrCodeUnknownDocument, "no template named "+name, nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template "+name, err)
	}

	return buf.String(), nil
}

// formatMoney formats a monetary value with thousand separators
// Example: 1234.5 -> "1,234.50"
func formatMoney(v interface{}) string {
	d := toDecimal(v)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	parts := strings.Split(d.StringFixed(2), ".")
	intPart := parts[0]
	decPart := "00"
	if len(parts) > 1 {
		decPart = parts[1]
	}

	var result strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(c)
	}

	return sign + result.String() + "." + decPart
}

// formatDate formats a time value as a date string
// Example: time.Now() -> "2026-03-03"
func formatDate(v interface{}) string {
	t := toTime(v)
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatClock formats a minute-of-day value as wall clock time
// Example: 600 -> "10:00"
func formatClock(v interface{}) string {
	m := int(toDecimal(v).IntPart())
	if m < 0 {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// formatPeriod renders a start/end minute pair as a time range
// Example: 600, 840 -> "10:00-14:00"
func formatPeriod(start, end interface{}) string {
	return formatClock(start) + "-" + formatClock(end)
}

// statusText converts status codes to display text
func statusText(status interface{}) string {
	s := fmt.Sprintf("%v", status)
	statusMap := map[string]string{
		"pending":   "Pending",
		"confirmed": "Confirmed",
		"cancelled": "Cancelled",
		"completed": "Completed",
		"DRAFT":     "Draft",
		"SENT":      "Sent",
		"ACCEPTED":  "Accepted",
		"DECLINED":  "Declined",
		"EXPIRED":   "Expired",
		"PARTIAL":   "Partially Paid",
		"PAID":      "Paid",
		"OVERDUE":   "Overdue",
		"VOID":      "Void",
		"REFUNDED":  "Refunded",
	}
	if text, ok := statusMap[s]; ok {
		return text
	}
	return s
}

func defaultFunc(def, val interface{}) interface{} {
	if val == nil {
		return def
	}
	if s, ok := val.(string); ok && s == "" {
		return def
	}
	return val
}

// toDecimal converts various types to decimal.Decimal
func toDecimal(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case int:
		return decimal.NewFromInt(int64(val))
	case int32:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float32:
		return decimal.NewFromFloat(float64(val))
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}

// toTime converts various types to time.Time
func toTime(v interface{}) time.Time {
	switch val := v.(type) {
	case time.Time:
		return val
	case *time.Time:
		if val == nil {
			return time.Time{}
		}
		return *val
	case string:
		formats := []string{
			time.RFC3339,
			"2006-01-02T15:04:05Z",
			"2006-01-02 15:04:05",
			"2006-01-02",
		}
		for _, f := range formats {
			if t, err := time.Parse(f, val); err == nil {
				return t
			}
		}
		return time.Time{}
	case int64:
		return time.Unix(val, 0)
	default:
		return time.Time{}
	}
}
