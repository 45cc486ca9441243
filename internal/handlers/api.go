// Package handlers exposes the recommendation engine over HTTP and AWS Lambda.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/services/advisor"
	"insurance-recommendation-engine/internal/services/ses"
	"insurance-recommendation-engine/internal/utils"
)

const (
	serviceName     = "insurance-recommendation-engine"
	maxRequestBytes = 1 << 20
)

// ErrEmptyQuery is returned when a request carries a blank query.
var ErrEmptyQuery = errors.New("query is required")

// Mailer sends a recommendation set by email.
type Mailer interface {
	SendRecommendations(ctx context.Context, to string, advice *models.Advice) (*ses.SendEmailResult, error)
}

// HealthChecker reports backing store connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RecommendRequest is the body of the recommend and email endpoints.
type RecommendRequest struct {
	Query string `json:"query"`
	TopN  *int   `json:"top_n,omitempty"`
	Email string `json:"email,omitempty"`
}

// topN returns the requested count, or DefaultTopN when omitted.
func (r RecommendRequest) topN() int {
	if r.TopN == nil {
		return models.DefaultTopN
	}
	return *r.TopN
}

// ExplainRequest is the body of the explain endpoint.
type ExplainRequest struct {
	Query     string `json:"query"`
	ProductID string `json:"product_id"`
}

// EmailResponse is returned after a recommendation email is accepted by SES.
type EmailResponse struct {
	MessageID string         `json:"message_id"`
	RequestID string         `json:"request_id"`
	Sent      int            `json:"sent"`
	Advice    *models.Advice `json:"advice"`
}

// HealthResponse is the response structure for health checks.
type HealthResponse struct {
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
	Service         string `json:"service"`
	Version         string `json:"version"`
	Stage           string `json:"stage"`
	CatalogProducts int    `json:"catalog_products"`
	NarrativeMode   string `json:"narrative_mode"`
	Database        string `json:"database,omitempty"`
}

// API serves the recommendation endpoints.
type API struct {
	advisor *advisor.Advisor
	mailer  Mailer
	db      HealthChecker
	stage   string
}

// APIOption configures an API.
type APIOption func(*API)

// WithMailer enables the email endpoint.
func WithMailer(m Mailer) APIOption {
	return func(a *API) { a.mailer = m }
}

// WithDatabase adds a database connectivity check to /health.
func WithDatabase(db HealthChecker) APIOption {
	return func(a *API) { a.db = db }
}

// WithStage sets the deployment stage reported by /health.
func WithStage(stage string) APIOption {
	return func(a *API) { a.stage = stage }
}

// NewAPI creates the API around an advisor.
func NewAPI(adv *advisor.Advisor, opts ...APIOption) *API {
	a := &API{advisor: adv, stage: "local"}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Routes registers every endpoint on a new mux.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("/api/health", a.healthHandler)
	mux.HandleFunc("/api/recommend", a.recommendHandler)
	mux.HandleFunc("/api/parse", a.parseHandler)
	mux.HandleFunc("/api/explain", a.explainHandler)
	mux.HandleFunc("/api/products", a.productsHandler)
	mux.HandleFunc("/api/recommendations/email", a.emailHandler)

	return mux
}

// Health builds the health report and its status code.
func (a *API) Health(ctx context.Context) (HealthResponse, int) {
	response := HealthResponse{
		Status:          "healthy",
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		Service:         serviceName,
		Version:         getEnvOrDefault("SERVICE_VERSION", "1.0.0"),
		Stage:           a.stage,
		CatalogProducts: a.advisor.Engine().Catalog().Len(),
		NarrativeMode:   a.advisor.NarrativeMode(),
	}

	if a.db != nil {
		if err := a.db.HealthCheck(ctx); err != nil {
			utils.Logger.Warn("Database health check failed", zap.Error(err))
			response.Database = "disconnected"
			response.Status = "degraded"
		} else {
			response.Database = "connected"
		}
	}

	if response.Status != "healthy" {
		return response, http.StatusServiceUnavailable
	}
	return response, http.StatusOK
}

// Recommend validates a request and runs the advisor.
func (a *API) Recommend(ctx context.Context, req RecommendRequest) (*models.Advice, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}
	return a.advisor.Advise(ctx, req.Query, req.topN())
}

func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	report, status := a.Health(r.Context())
	writeJSON(w, status, healthEnvelope(report, status))
}

func (a *API) recommendHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req RecommendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	advice, err := a.Recommend(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, adviceEnvelope(advice))
}

func healthEnvelope(report HealthResponse, status int) Response {
	return Response{
		Success: status == http.StatusOK,
		Message: "Insurance Recommendation Engine API is running",
		Data:    report,
	}
}

func adviceEnvelope(advice *models.Advice) Response {
	message := "Recommendations generated"
	if len(advice.Recommendations) == 0 {
		message = "No products match your criteria. Try broadening your requirements."
	}
	return Response{Success: true, Message: message, Data: advice}
}

func (a *API) parseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req RecommendRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, ErrEmptyQuery)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    a.advisor.Engine().ParseUserQuery(req.Query),
	})
}

func (a *API) explainHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req ExplainRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	product, err := a.advisor.Explain(req.Query, req.ProductID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

func (a *API) productsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	products := a.advisor.Engine().Catalog().Products()
	if r.URL.Query().Get("view") == "full" {
		writeJSON(w, http.StatusOK, Response{Success: true, Data: products})
		return
	}

	summaries := make([]models.ProductSummary, len(products))
	for i, p := range products {
		summaries[i] = p.ToSummary()
	}
	writeJSON(w, http.StatusOK, Response{Success: true, Data: summaries})
}

func (a *API) emailHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	if a.mailer == nil {
		writeJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "Email delivery is not configured",
		})
		return
	}

	var req RecommendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx := r.Context()
	advice, err := a.Recommend(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := a.mailer.SendRecommendations(ctx, req.Email, advice)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Recommendations sent",
		Data: EmailResponse{
			MessageID: result.MessageID,
			RequestID: advice.RequestID,
			Sent:      len(advice.Recommendations),
			Advice:    advice,
		},
	})
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, ErrEmptyQuery),
		errors.Is(err, models.ErrInvalidTopN),
		errors.Is(err, ses.ErrInvalidRecipient):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, ses.ErrNothingToSend):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		utils.Logger.Error("Request failed", zap.Error(err))
		message = http.StatusText(status)
	}
	writeJSON(w, status, Response{Success: false, Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, Response{
		Success: false,
		Error:   "Method not allowed",
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		utils.Logger.Warn("Failed to write response", zap.Error(err))
	}
}

// getEnvOrDefault returns environment variable or default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
