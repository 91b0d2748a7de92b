package insight

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/the-spice-must-learn/internal/model"
)

const adviceTemplate = `You are a personal finance expert. Based on this month's spending, give 3-5 SPECIFIC and PRACTICAL saving tips.

Total spending: {{formatAmount .Total}}

Breakdown by category:
{{- range .Categories}}
- {{.Category}}: {{formatAmount .Total}}
{{- else}}
- no spending recorded
{{- end}}

Answer concisely and plainly. Use markdown bullet points.`

const predictTemplate = `You are a financial analyst. Based on the spending history below, PREDICT next month's spending.

Spending history:
{{- range .Months}}
{{.Month}}: {{formatAmount .Total}}{{with categoryList .ByCategory}} ({{.}}){{end}}
{{- end}}

Answer with JSON in this format:
{
  "total": <predicted amount>,
  "byCategory": { "<category name>": <amount> },
  "explanation": "<short explanation>"
}

ANSWER WITH JSON ONLY, NO MARKDOWN CODE BLOCK.`

const chatTemplate = `You are a smart personal finance assistant. Your job is to help the user understand and manage their spending.

USER SPENDING INFORMATION:
- Total spending this month: {{formatAmount .Total}}
- Breakdown: {{range $i, $c := .Categories}}{{if $i}}, {{end}}{{$c.Category}}: {{formatAmount $c.Total}}{{end}}
- {{len .Recent}} most recent transactions: {{range $i, $t := .Recent}}{{if $i}}; {{end}}{{formatDate $t.Date}}: {{formatAmount $t.Amount}} ({{$t.Category}}) - {{truncate $t.Description 60}}{{end}}

Answer questions about spending briefly, helpfully and in a friendly tone.`

// promptBuilder renders the insight prompts.
type promptBuilder struct {
	advice  *template.Template
	predict *template.Template
	chat    *template.Template
}

type advicePromptData struct {
	Total      decimal.Decimal
	Categories []model.CategoryTotal
}

type predictPromptData struct {
	Months []model.MonthlyTotal
}

type chatPromptData struct {
	Total      decimal.Decimal
	Categories []model.CategoryTotal
	Recent     []recentTransaction
}

type recentTransaction struct {
	Date        time.Time
	Amount      decimal.Decimal
	Category    string
	Description string
}

func newPromptBuilder() (*promptBuilder, error) {
	funcMap := template.FuncMap{
		"formatAmount": model.FormatAmount,
		"formatDate":   formatDate,
		"truncate":     truncate,
		"categoryList": categoryList,
	}

	parse := func(name, text string) (*template.Template, error) {
		tmpl, err := template.New(name).Funcs(funcMap).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		return tmpl, nil
	}

	advice, err := parse("advice", adviceTemplate)
	if err != nil {
		return nil, err
	}
	predict, err := parse("predict", predictTemplate)
	if err != nil {
		return nil, err
	}
	chat, err := parse("chat", chatTemplate)
	if err != nil {
		return nil, err
	}

	return &promptBuilder{advice: advice, predict: predict, chat: chat}, nil
}

func (pb *promptBuilder) buildAdvice(data advicePromptData) (string, error) {
	return execute(pb.advice, data)
}

func (pb *promptBuilder) buildPrediction(data predictPromptData) (string, error) {
	return execute(pb.predict, data)
}

func (pb *promptBuilder) buildChat(data chatPromptData) (string, error) {
	return execute(pb.chat, data)
}

func execute(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

// categoryList renders a month's breakdown in stable (alphabetical) order.
func categoryList(byCategory map[string]decimal.Decimal) string {
	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, model.FormatAmount(byCategory[name])))
	}
	return strings.Join(parts, ", ")
}
