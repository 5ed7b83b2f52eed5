package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/acordafut/standings-engine/internal/domain/result"
	"github.com/acordafut/standings-engine/internal/platform/logging"
)

// ParseReport is the outcome of parsing one pasted block of result lines.
type ParseReport struct {
	Results    []result.Result
	TotalLines int
	Skipped    int
}

// LineValidation is the strict per-line feedback shown to operators before
// they commit a batch.
type LineValidation struct {
	Line   string
	Valid  bool
	Reason string
}

type ResultService struct {
	parser *result.Parser
	logger *logging.Logger
}

func NewResultService(parser *result.Parser, logger *logging.Logger) *ResultService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ResultService{
		parser: parser,
		logger: logger,
	}
}

func (s *ResultService) Parse(ctx context.Context, text string) (ParseReport, error) {
	ctx, span := startUsecaseSpan(ctx, "ResultService.Parse")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return ParseReport{}, fmt.Errorf("%w: results text is required", ErrInvalidInput)
	}

	total := result.CountNonBlank(text)
	parsed := s.parser.ParseBlock(text)

	report := ParseReport{
		Results:    parsed,
		TotalLines: total,
		Skipped:    total - len(parsed),
	}
	if report.Skipped > 0 {
		s.logger.WarnContext(ctx, "some result lines did not match any notation",
			"total", total, "skipped", report.Skipped)
	}

	return report, nil
}

// Validate runs the strict line check. It is intentionally stricter than
// Parse: only the plain-score notation with two known team codes passes.
func (s *ResultService) Validate(ctx context.Context, lines []string) ([]LineValidation, error) {
	_, span := startUsecaseSpan(ctx, "ResultService.Validate")
	defer span.End()

	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: at least one line is required", ErrInvalidInput)
	}

	out := make([]LineValidation, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		valid, reason := s.parser.ValidateLine(line)
		out = append(out, LineValidation{
			Line:   strings.TrimSpace(line),
			Valid:  valid,
			Reason: reason,
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: at least one non-blank line is required", ErrInvalidInput)
	}

	return out, nil
}
