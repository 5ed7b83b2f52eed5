package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"github.com/acordafut/standings-engine/internal/domain/league"
	"github.com/acordafut/standings-engine/internal/domain/result"
	"github.com/acordafut/standings-engine/internal/domain/zone"
	"github.com/acordafut/standings-engine/internal/platform/logging"
	"github.com/acordafut/standings-engine/internal/usecase"
)

type Handler struct {
	leagues           league.Registry
	resultService     *usecase.ResultService
	updateService     *usecase.UpdateService
	validationService *usecase.ValidationService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	leagues league.Registry,
	resultService *usecase.ResultService,
	updateService *usecase.UpdateService,
	validationService *usecase.ValidationService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagues:           leagues,
		resultService:     resultService,
		updateService:     updateService,
		validationService: validationService,
		logger:            logger,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	items := make([]leagueDTO, 0, len(h.leagues))
	for _, key := range h.leagues.Keys() {
		lg, _ := h.leagues.Get(key)
		items = append(items, leagueDTO{
			Key:       lg.Key,
			Name:      lg.Name,
			TeamCount: lg.TeamCount,
			ModeAware: lg.ModeAware,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ParseResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ParseResults")
	defer span.End()

	var req parseResultsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.resultService.Parse(ctx, req.Text)
	if err != nil {
		h.logger.WarnContext(ctx, "parse results failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]resultDTO, 0, len(report.Results))
	for _, item := range report.Results {
		items = append(items, resultToDTO(item))
	}

	writeSuccess(ctx, w, http.StatusOK, parseReportDTO{
		Results:    items,
		TotalLines: report.TotalLines,
		Skipped:    report.Skipped,
	})
}

func (h *Handler) ValidateResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ValidateResults")
	defer span.End()

	var req validateResultsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	checks, err := h.resultService.Validate(ctx, req.Lines)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items := make([]lineValidationDTO, 0, len(checks))
	for _, check := range checks {
		items = append(items, lineValidationDTO{
			Line:   check.Line,
			Valid:  check.Valid,
			Reason: check.Reason,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTable")
	defer span.End()

	leagueKey := r.PathValue("league")
	mode := strings.TrimSpace(r.URL.Query().Get("mode"))
	confirmations, err := parseConfirmations(r.URL.Query())
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.updateService.GetTable(ctx, leagueKey, mode, confirmations)
	if err != nil {
		h.logger.WarnContext(ctx, "get table failed", "league", leagueKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tableViewToDTO(view))
}

func (h *Handler) ApplyResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyResults")
	defer span.End()

	leagueKey := r.PathValue("league")
	var req applyResultsRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	report, err := h.updateService.Update(ctx, usecase.UpdateInput{
		League:  leagueKey,
		Results: req.Results,
		Message: req.Message,
		Notes:   req.Notes,
		DryRun:  req.DryRun,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "apply results failed", "league", leagueKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, updateReportToDTO(report))
}

func (h *Handler) GetDivergences(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDivergences")
	defer span.End()

	leagueKey := r.PathValue("league")
	report, err := h.validationService.CompareLeague(ctx, leagueKey)
	if err != nil {
		h.logger.WarnContext(ctx, "compare league failed", "league", leagueKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, divergenceReportToDTO(report))
}

func (h *Handler) ScanDivergences(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScanDivergences")
	defer span.End()

	reports, err := h.validationService.ScanAll(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "divergence scan failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]divergenceReportDTO, 0, len(reports))
	for _, report := range reports {
		items = append(items, divergenceReportToDTO(report))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, target any) error {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validator.StructCtx(ctx, target); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// parseConfirmations reads repeated confirmed_<zone> query parameters, each
// holding a table position, e.g. ?confirmed_champion=1&confirmed_relegation=20.
func parseConfirmations(query url.Values) (zone.Confirmations, error) {
	params := map[string]func(*zone.Flags){
		"confirmed_champion":   func(f *zone.Flags) { f.Champion = true },
		"confirmed_ucl":        func(f *zone.Flags) { f.UCL = true },
		"confirmed_uel":        func(f *zone.Flags) { f.UEL = true },
		"confirmed_uecl":       func(f *zone.Flags) { f.UECL = true },
		"confirmed_relegation": func(f *zone.Flags) { f.Relegated = true },
	}

	out := make(zone.Confirmations)
	for param, set := range params {
		for _, raw := range query[param] {
			position, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil || position < 1 {
				return nil, fmt.Errorf("%w: %s must hold positive positions, got %q", usecase.ErrInvalidInput, param, raw)
			}
			flags := out[position]
			set(&flags)
			out[position] = flags
		}
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

type parseResultsRequest struct {
	Text string `json:"text" validate:"required"`
}

type validateResultsRequest struct {
	Lines []string `json:"lines" validate:"required,min=1"`
}

type applyResultsRequest struct {
	Results string            `json:"results" validate:"required"`
	Message string            `json:"message" validate:"max=200"`
	Notes   map[string]string `json:"notes" validate:"omitempty,dive,max=120"`
	DryRun  bool              `json:"dry_run"`
}

type leagueDTO struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	TeamCount int    `json:"teamCount"`
	ModeAware bool   `json:"modeAware"`
}

type resultDTO struct {
	HomeAbbr         string `json:"homeAbbr"`
	AwayAbbr         string `json:"awayAbbr"`
	HomeTeam         string `json:"homeTeam"`
	AwayTeam         string `json:"awayTeam"`
	HomeScore        *int   `json:"homeScore,omitempty"`
	AwayScore        *int   `json:"awayScore,omitempty"`
	PenaltyHomeScore *int   `json:"penaltyHomeScore,omitempty"`
	PenaltyAwayScore *int   `json:"penaltyAwayScore,omitempty"`
	Status           string `json:"status"`
	Note             string `json:"note,omitempty"`
}

type parseReportDTO struct {
	Results    []resultDTO `json:"results"`
	TotalLines int         `json:"totalLines"`
	Skipped    int         `json:"skipped"`
}

type lineValidationDTO struct {
	Line   string `json:"line"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type tableRowDTO struct {
	Position       int    `json:"position"`
	Name           string `json:"name"`
	Games          int    `json:"games"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goalsFor"`
	GoalsAgainst   int    `json:"goalsAgainst"`
	GoalDifference int    `json:"goalDifference"`
	Points         int    `json:"points"`
	Note           string `json:"note,omitempty"`
	Zone           string `json:"zone,omitempty"`
	ZoneConfirmed  bool   `json:"zoneConfirmed,omitempty"`
	Decoration     string `json:"decoration,omitempty"`
}

type tableViewDTO struct {
	League   string        `json:"league"`
	Name     string        `json:"name"`
	MaxGames int           `json:"maxGames"`
	Rows     []tableRowDTO `json:"rows"`
}

type updateReportDTO struct {
	League   string        `json:"league"`
	Applied  int           `json:"applied"`
	Skipped  int           `json:"skipped"`
	Warnings []string      `json:"warnings,omitempty"`
	Rows     []tableRowDTO `json:"rows"`
	Token    string        `json:"token"`
	DryRun   bool          `json:"dryRun"`
}

type fieldDiffDTO struct {
	Field     string `json:"field"`
	Computed  int    `json:"computed"`
	Reference int    `json:"reference"`
}

type divergenceDTO struct {
	Team        string         `json:"team"`
	MatchedName string         `json:"matchedName,omitempty"`
	Similarity  float64        `json:"similarity,omitempty"`
	Missing     bool           `json:"missing,omitempty"`
	Fields      []fieldDiffDTO `json:"fields,omitempty"`
}

type divergenceReportDTO struct {
	League      string          `json:"league"`
	Source      string          `json:"source,omitempty"`
	Checked     int             `json:"checked"`
	Degraded    bool            `json:"degraded,omitempty"`
	Divergences []divergenceDTO `json:"divergences"`
}

func resultToDTO(v result.Result) resultDTO {
	return resultDTO{
		HomeAbbr:         v.HomeAbbr,
		AwayAbbr:         v.AwayAbbr,
		HomeTeam:         v.HomeTeam,
		AwayTeam:         v.AwayTeam,
		HomeScore:        v.HomeScore,
		AwayScore:        v.AwayScore,
		PenaltyHomeScore: v.PenaltyHomeScore,
		PenaltyAwayScore: v.PenaltyAwayScore,
		Status:           v.Status,
		Note:             v.Note,
	}
}

func tableViewToDTO(view usecase.TableView) tableViewDTO {
	rows := make([]tableRowDTO, 0, len(view.Rows))
	for _, row := range view.Rows {
		rows = append(rows, tableRowDTO{
			Position:       row.Position,
			Name:           row.Name,
			Games:          row.Games,
			Wins:           row.Wins,
			Draws:          row.Draws,
			Losses:         row.Losses,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
			Note:           row.Note,
			Zone:           row.Zone,
			ZoneConfirmed:  row.ZoneConfirmed,
			Decoration:     row.Decoration,
		})
	}

	return tableViewDTO{
		League:   view.League,
		Name:     view.Name,
		MaxGames: view.MaxGames,
		Rows:     rows,
	}
}

func updateReportToDTO(report usecase.UpdateReport) updateReportDTO {
	rows := make([]tableRowDTO, 0, len(report.Rows))
	for _, row := range report.Rows {
		rows = append(rows, tableRowDTO{
			Position:       row.Position,
			Name:           row.Name,
			Games:          row.Games,
			Wins:           row.Wins,
			Draws:          row.Draws,
			Losses:         row.Losses,
			GoalsFor:       row.GoalsFor,
			GoalsAgainst:   row.GoalsAgainst,
			GoalDifference: row.GoalDifference,
			Points:         row.Points,
			Note:           row.Note,
		})
	}

	return updateReportDTO{
		League:   report.League,
		Applied:  report.Applied,
		Skipped:  report.Skipped,
		Warnings: report.Warnings,
		Rows:     rows,
		Token:    report.Token,
		DryRun:   report.DryRun,
	}
}

func divergenceReportToDTO(report usecase.DivergenceReport) divergenceReportDTO {
	items := make([]divergenceDTO, 0, len(report.Divergences))
	for _, item := range report.Divergences {
		fields := make([]fieldDiffDTO, 0, len(item.Fields))
		for _, field := range item.Fields {
			fields = append(fields, fieldDiffDTO{
				Field:     field.Field,
				Computed:  field.Computed,
				Reference: field.Reference,
			})
		}
		items = append(items, divergenceDTO{
			Team:        item.Team,
			MatchedName: item.MatchedName,
			Similarity:  item.Similarity,
			Missing:     item.Missing(),
			Fields:      fields,
		})
	}

	return divergenceReportDTO{
		League:      report.League,
		Source:      report.Source,
		Checked:     report.Checked,
		Degraded:    report.Degraded,
		Divergences: items,
	}
}
