// Package ai extracts transaction candidates from statement documents with
// Gemini, for layouts the deterministic parsers cannot read.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/grana-app/grana/internal/category"
	"github.com/grana-app/grana/internal/common"
	"github.com/grana-app/grana/internal/model"
	"github.com/grana-app/grana/internal/service"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// ErrEmptyResponse means the model returned no text at all.
var ErrEmptyResponse = errors.New("empty response from model")

// GeminiExtractor implements service.Extractor on the Gemini API. The model
// is asked for a strict JSON array; everything else (fences, prose, partial
// rows) is treated as noise and stripped or skipped.
type GeminiExtractor struct {
	client     *genai.Client
	logger     *slog.Logger
	model      string
	categories []string
}

var _ service.Extractor = (*GeminiExtractor)(nil)

// NewGeminiExtractor creates an extractor. The API key comes from the
// environment (GEMINI_API_KEY or GOOGLE_API_KEY), which is the client
// library's own convention. categories constrains the model's category
// vocabulary; pass the merged taxonomy names.
func NewGeminiExtractor(ctx context.Context, modelName string, categories []string, logger *slog.Logger) (*GeminiExtractor, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	if modelName == "" {
		modelName = DefaultModel
	}
	if len(categories) == 0 {
		categories = category.Names(category.Taxonomy())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiExtractor{client: client, model: modelName, categories: categories, logger: logger}, nil
}

// extractedRow is the JSON shape the prompt demands from the model.
type extractedRow struct {
	Date              string  `json:"date"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	Type              string  `json:"type"`
	Source            string  `json:"source"`
	BankName          string  `json:"bank_name"`
	Amount            float64 `json:"amount"`
	InstallmentNumber int     `json:"installment_number"`
	TotalInstallments int     `json:"total_installments"`
}

// Extract sends the document to Gemini and decodes the response into
// candidates. Rows the model got structurally wrong are logged and skipped
// rather than failing the whole extraction.
func (e *GeminiExtractor) Extract(ctx context.Context, input service.ExtractionInput) ([]model.Candidate, error) {
	parts := []*genai.Part{{Text: e.prompt()}}
	switch {
	case len(input.Data) > 0:
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{
			MIMEType: input.MIMEType,
			Data:     input.Data,
		}})
	case input.Text != "":
		parts = append(parts, &genai.Part{Text: "Statement text:\n\n" + input.Text})
	default:
		return nil, errors.New("extraction input has neither document bytes nor text")
	}

	contents := []*genai.Content{{Role: "user", Parts: parts}}

	var resp *genai.GenerateContentResponse
	err := common.WithRetry(ctx, func() error {
		var genErr error
		resp, genErr = e.client.Models.GenerateContent(ctx, e.model, contents, nil)
		return genErr
	}, common.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, ErrEmptyResponse
	}
	return e.decode(raw)
}

func (e *GeminiExtractor) decode(raw string) ([]model.Candidate, error) {
	var rows []extractedRow
	if err := json.Unmarshal([]byte(cleanModelJSON(raw)), &rows); err != nil {
		return nil, fmt.Errorf("model returned unparseable JSON: %w", err)
	}

	candidates := make([]model.Candidate, 0, len(rows))
	for i, row := range rows {
		candidate, err := rowCandidate(row)
		if err != nil {
			e.logger.Warn("skipping malformed extracted row", "row", i, "error", err)
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func rowCandidate(row extractedRow) (model.Candidate, error) {
	date, err := time.Parse("2006-01-02", row.Date)
	if err != nil {
		return model.Candidate{}, fmt.Errorf("bad date %q: %w", row.Date, err)
	}

	txType := model.TypeExpense
	if strings.EqualFold(row.Type, "income") {
		txType = model.TypeIncome
	}
	source := model.SourceAccount
	if strings.EqualFold(row.Source, "card") {
		source = model.SourceCard
	}

	cat := strings.TrimSpace(row.Category)
	if cat == "" {
		cat = category.Categorize(row.Description)
	}

	candidate := model.Candidate{
		Date:              date,
		Description:       strings.TrimSpace(row.Description),
		Category:          cat,
		BankName:          strings.TrimSpace(row.BankName),
		Type:              txType,
		SourceType:        source,
		Amount:            row.Amount,
		InstallmentNumber: row.InstallmentNumber,
		TotalInstallments: row.TotalInstallments,
		Selected:          true,
	}
	if err := candidate.Validate(); err != nil {
		return model.Candidate{}, err
	}
	return candidate, nil
}

func (e *GeminiExtractor) prompt() string {
	var b strings.Builder
	b.WriteString("You are a parser for Brazilian bank statements and credit-card invoices.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- Extract ALL transactions from the attached document.\n")
	b.WriteString("- Ignore boilerplate lines: previous invoice payments, balances, limits, interest.\n")
	b.WriteString("- Output STRICT JSON only: a JSON array of objects, no comments, no extra text.\n\n")
	b.WriteString("Each object must have these fields:\n")
	b.WriteString("- \"date\": string, ISO format \"YYYY-MM-DD\"\n")
	b.WriteString("- \"description\": string\n")
	b.WriteString("- \"amount\": number, always positive\n")
	b.WriteString("- \"type\": \"income\" or \"expense\"\n")
	b.WriteString("- \"source\": \"account\" for bank statements, \"card\" for credit-card invoices\n")
	b.WriteString("- \"bank_name\": string, the issuing bank, or \"\" if unknown\n")
	b.WriteString("- \"category\": string, one of: ")
	b.WriteString(strings.Join(e.categories, ", "))
	b.WriteString("\n")
	b.WriteString("- \"installment_number\" and \"total_installments\": integers from markers like \"3/10\" or \"Parcela 3 de 10\", else 0\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- Refunds and chargebacks (estorno, reembolso) are \"income\".\n")
	b.WriteString("- Amounts use Brazilian formatting in the document (1.234,56); output plain numbers.\n")
	b.WriteString("Return ONLY valid raw JSON.\n")
	b.WriteString("Do NOT wrap the response in code fences.\n")
	b.WriteString("Output must begin with \"[\" and end with \"]\".\n")
	return b.String()
}

// cleanModelJSON strips the Markdown fences and surrounding prose models emit
// despite instructions, keeping the outermost JSON array.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
