package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/sgk-rpa/rpa-dashboard/internal/core/domain"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/engine"
	apperrors "github.com/sgk-rpa/rpa-dashboard/internal/core/errors"
	"github.com/sgk-rpa/rpa-dashboard/internal/core/ports"
)

const (
	assistantTopN = 5

	assistantSystemPrompt = "Sen SGK RPA dashboard verilerini analiz eden Türkçe bir asistansın. " +
		"Verilen istatistiklere dayanarak kısa ve net yanıt ver."

	answerNoData     = "Bu soruyu yanıtlamak için yeterli veri bulunamadı."
	answerModelError = "Veri yetersiz veya dil modeli hatası oluştu."
)

// Chat statistics groupings.
var assistantGroupings = []domain.GroupingSpec{
	{Name: "departments", Key: domain.GroupByDepartment, Limit: assistantTopN},
	{Name: "positions", Key: domain.GroupByPosition, Limit: assistantTopN},
	{Name: "workplaces", Key: domain.GroupByWorkplace, Limit: assistantTopN},
	{Name: "errors", Key: domain.GroupByErrorLabel, Status: domain.StatusError, Limit: assistantTopN},
}

// AssistantService answers questions about a dashboard's full data set.
// Simple questions are answered from the statistics directly; anything else
// goes to the language model when one is configured.
type AssistantService struct {
	dashboards ports.DashboardService
	model      ports.LanguageModel
	logger     *slog.Logger
}

var _ ports.AssistantService = (*AssistantService)(nil)

// NewAssistantService creates an assistant. model may be nil.
func NewAssistantService(
	dashboards ports.DashboardService,
	model ports.LanguageModel,
	logger *slog.Logger,
) *AssistantService {
	return &AssistantService{
		dashboards: dashboards,
		model:      model,
		logger:     logger.With("service", "assistant"),
	}
}

// Ask answers a question within a scope: a variant name or "combined".
func (s *AssistantService) Ask(ctx context.Context, params ports.AskParams) (*domain.Answer, error) {
	question := strings.TrimSpace(params.Question)
	if question == "" {
		return nil, apperrors.ErrQuestionRequired
	}

	label, records, err := s.scopeRecords(params.Scope)
	if err != nil {
		return nil, err
	}
	stats := newChatStats(label, records)

	answer := &domain.Answer{Scope: params.Scope}
	if text, ok := stats.quickAnswer(question); ok {
		answer.Text = text
		return answer, nil
	}

	if s.model == nil {
		answer.Text = answerNoData
		return answer, nil
	}

	prompt := fmt.Sprintf("Veri:\n%s\n\nSoru: %s", stats.context(), question)
	text, err := s.model.Complete(ctx, assistantSystemPrompt, prompt)
	if err != nil {
		s.logger.Warn("language model failed", "scope", params.Scope, "error", err)
		answer.Text = answerModelError
		answer.ModelError = err.Error()
		return answer, nil
	}

	answer.Text = strings.TrimSpace(text)
	answer.UsedModel = true
	if answer.Text == "" {
		answer.Text = answerNoData
	}
	return answer, nil
}

func (s *AssistantService) scopeRecords(scope string) (string, []domain.Record, error) {
	if scope != domain.ChatScopeCombined {
		v, err := s.dashboards.Variant(scope)
		if err != nil {
			return "", nil, err
		}
		snap, err := s.dashboards.Snapshot(scope)
		if err != nil {
			return "", nil, err
		}
		return v.Title, snap.Records, nil
	}

	var (
		titles  []string
		records []domain.Record
	)
	for _, v := range s.dashboards.Variants() {
		snap, err := s.dashboards.Snapshot(v.Name)
		if err != nil {
			return "", nil, err
		}
		titles = append(titles, v.Title)
		records = append(records, snap.Records...)
	}
	return strings.Join(titles, " + "), records, nil
}

// chatStats is the statistics context of one assistant scope.
type chatStats struct {
	label   string
	records []domain.Record
	result  domain.AggregateResult

	workplaces  []string
	departments []string
	positions   []string
}

func newChatStats(label string, records []domain.Record) *chatStats {
	v := domain.Variant{
		Name:                   "assistant",
		Groupings:              assistantGroupings,
		ManualSecondsPerRecord: domain.DefaultManualSecondsPerRecord,
	}
	cs := &chatStats{
		label:   label,
		records: records,
		result:  engine.Aggregate(records, v),
	}

	var wp, dep, pos distinctValues
	for i := range records {
		wp.add(records[i].Workplace)
		dep.add(records[i].DepartmentClean)
		pos.add(records[i].PositionClean)
	}
	cs.workplaces, cs.departments, cs.positions = wp.list, dep.list, pos.list
	return cs
}

func (cs *chatStats) top(name string) []domain.GroupCount {
	g, _ := cs.result.Grouping(name)
	return g.Items
}

func (cs *chatStats) quickAnswer(question string) (string, bool) {
	q := strings.ToLower(question)
	k := cs.result.KPIs

	if containsAny(q, "isyeri", "işyeri", "hastane") {
		if v := longestMention(q, cs.workplaces); v != "" {
			return cs.subset(domain.FieldWorkplace, v), true
		}
	}
	if strings.Contains(q, "departman") {
		if v := longestMention(q, cs.departments); v != "" {
			return cs.subset(domain.FieldDepartmentClean, v), true
		}
	}
	if strings.Contains(q, "pozisyon") {
		if v := longestMention(q, cs.positions); v != "" {
			return cs.subset(domain.FieldPositionClean, v), true
		}
	}

	switch {
	case strings.Contains(q, "toplam") && containsAny(q, "kayıt", "kayit"):
		return fmt.Sprintf("Toplam kayıt: %d", k.Total), true
	case strings.Contains(q, "başarı oran"):
		return fmt.Sprintf("Başarı oranı: %%%.1f", k.SuccessRate*100), true
	case strings.Contains(q, "fte"):
		return fmt.Sprintf("FTE tasarrufu: %.2f", k.FTESaved), true
	case strings.Contains(q, "hata") && containsAny(q, "neden", "sebep", "tip"):
		var b strings.Builder
		b.WriteString("Hata nedenleri:")
		for _, g := range cs.top("errors") {
			fmt.Fprintf(&b, "\n  • %s (%d)", g.Label, g.Count)
		}
		return b.String(), true
	case strings.Contains(q, "en yoğun departman") || (strings.Contains(q, "departman") && hasWord(q, "en")):
		label, n := first(cs.top("departments"))
		return fmt.Sprintf("En yoğun departman: %s (%d kayıt)", label, n), true
	case strings.Contains(q, "en yoğun işyeri") || (containsAny(q, "işyeri", "isyeri") && hasWord(q, "en")):
		label, n := first(cs.top("workplaces"))
		return fmt.Sprintf("En yoğun işyeri: %s (%d kayıt)", label, n), true
	}
	return "", false
}

func (cs *chatStats) subset(field, value string) string {
	total, completed, failed := 0, 0, 0
	for i := range cs.records {
		r := &cs.records[i]
		if r.Field(field) != value {
			continue
		}
		total++
		switch {
		case r.IsCompleted():
			completed++
		case r.IsError():
			failed++
		}
	}
	return fmt.Sprintf("%s: toplam %d, başarılı %d, hatalı %d.", value, total, completed, failed)
}

// context renders the compact statistics block sent to the language model.
func (cs *chatStats) context() string {
	k := cs.result.KPIs
	dateMin, dateMax := "-", "-"
	if n := len(cs.result.Trend); n > 0 {
		dateMin, dateMax = cs.result.Trend[0].Date, cs.result.Trend[n-1].Date
	}

	var b strings.Builder
	if cs.label != "" {
		fmt.Fprintf(&b, "[%s] ", cs.label)
	}
	fmt.Fprintf(&b, "Toplam:%d Başarılı:%d Hatalı:%d Oran:%.1f%%\n",
		k.Total, k.Completed, k.Error, k.SuccessRate*100)
	fmt.Fprintf(&b, "Tarih:%s→%s OrtSüre:%.0fsn GünlükOrt:%.0f FTE:%.2f\n",
		dateMin, dateMax, k.AvgDurationSec, k.DailyAverage, k.FTESaved)
	fmt.Fprintf(&b, "Departmanlar:%s\n", formatCounts(cs.top("departments")))
	fmt.Fprintf(&b, "Pozisyonlar:%s\n", formatCounts(cs.top("positions")))
	fmt.Fprintf(&b, "İşyerleri:%s\n", formatCounts(cs.top("workplaces")))
	fmt.Fprintf(&b, "Hatalar:%s", formatCounts(cs.top("errors")))
	return b.String()
}

func formatCounts(items []domain.GroupCount) string {
	if len(items) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s(%d)", it.Label, it.Count))
	}
	return strings.Join(parts, ", ")
}

func first(items []domain.GroupCount) (string, int) {
	if len(items) == 0 {
		return "-", 0
	}
	return items[0].Label, items[0].Count
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// hasWord reports whether word appears in s as a whole word, so "en" does
// not match "genel" or "neden".
func hasWord(s, word string) bool {
	for _, w := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if w == word {
			return true
		}
	}
	return false
}

// longestMention returns the longest value mentioned in q.
func longestMention(q string, values []string) string {
	best := ""
	for _, v := range values {
		if len(v) > len(best) && strings.Contains(q, strings.ToLower(v)) {
			best = v
		}
	}
	return best
}

type distinctValues struct {
	seen map[string]bool
	list []string
}

func (d *distinctValues) add(s string) {
	if s == "" {
		return
	}
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	if !d.seen[s] {
		d.seen[s] = true
		d.list = append(d.list, s)
	}
}
