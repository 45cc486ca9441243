package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"insurance-recommendation-engine/internal/utils"
)

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "Content-Type,Authorization",
	"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
	"Content-Type":                 "application/json",
}

// LambdaHandler adapts the API to API Gateway proxy events.
type LambdaHandler struct {
	api *API
}

// NewLambdaHandler creates a Lambda handler around an API.
func NewLambdaHandler(api *API) *LambdaHandler {
	return &LambdaHandler{api: api}
}

// Recommend handles POST requests carrying a RecommendRequest body.
func (h *LambdaHandler) Recommend(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := utils.GetLogger()

	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    corsHeaders,
		}, nil
	}

	if request.HTTPMethod != http.MethodPost {
		return errorResponse(http.StatusMethodNotAllowed, "Method not allowed")
	}

	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return errorResponse(http.StatusBadRequest, "Invalid request body")
		}
		body = decoded
	}

	var req RecommendRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return errorResponse(http.StatusBadRequest, "Invalid request body")
	}

	advice, err := h.api.Recommend(ctx, req)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Recommendation failed",
				utils.String("requestId", request.RequestContext.RequestID),
				utils.Error(err))
			return errorResponse(status, http.StatusText(status))
		}
		return errorResponse(status, err.Error())
	}

	return jsonResponse(http.StatusOK, adviceEnvelope(advice))
}

// Health handles health check requests.
func (h *LambdaHandler) Health(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	report, status := h.api.Health(ctx)
	return jsonResponse(status, healthEnvelope(report, status))
}

func jsonResponse(statusCode int, payload interface{}) (events.APIGatewayProxyResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers:    corsHeaders,
		Body:       string(body),
	}, nil
}

// errorResponse creates an error response.
func errorResponse(statusCode int, message string) (events.APIGatewayProxyResponse, error) {
	return jsonResponse(statusCode, Response{
		Success: false,
		Error:   message,
	})
}
