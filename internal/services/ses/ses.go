// Package ses delivers recommendation digests by email via AWS SES.
package ses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/utils"
)

var (
	// ErrSenderNotConfigured is returned when SES_SENDER_EMAIL is empty.
	ErrSenderNotConfigured = errors.New("SES sender email not configured")
	// ErrInvalidRecipient is returned for an empty or malformed recipient address.
	ErrInvalidRecipient = errors.New("invalid recipient email")
	// ErrNothingToSend is returned when the advice carries no recommendations.
	ErrNothingToSend = errors.New("no recommendations to send")
)

// EmailAPI is the subset of the SES client used by Service.
type EmailAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Service handles SES email operations
type Service struct {
	client    EmailAPI
	fromEmail string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	ReplyTo  string
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// digestItem is one product row in the rendered digest.
type digestItem struct {
	Rank         int
	Name         string
	Type         string
	Coverage     string
	Premium      string
	CoPay        int
	MatchPercent int
	Explanation  string
}

type digestData struct {
	Query         string
	Understanding string
	Items         []digestItem
	Comparison    string
}

// NewService creates a new SES service
func NewService(ctx context.Context, appCfg *appConfig.Config) (*Service, error) {
	if appCfg.SESSenderEmail == "" {
		return nil, ErrSenderNotConfigured
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(appCfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewWithClient(ses.NewFromConfig(cfg), appCfg.SESSenderEmail), nil
}

// NewWithClient creates a service around an existing client.
func NewWithClient(client EmailAPI, fromEmail string) *Service {
	return &Service{client: client, fromEmail: fromEmail}
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	if !validEmail(params.To) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, params.To)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if params.ReplyTo != "" {
		input.ReplyToAddresses = []string{params.ReplyTo}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.Logger.Error("Failed to send email",
			zap.String("to", params.To),
			zap.String("subject", params.Subject),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	messageID := aws.ToString(result.MessageId)
	utils.Logger.Info("Email sent successfully",
		zap.String("to", params.To),
		zap.String("messageId", messageID),
	)

	return &SendEmailResult{
		MessageID: messageID,
		SentAt:    time.Now(),
	}, nil
}

// SendRecommendations emails the ranked products of advice to a single recipient.
func (s *Service) SendRecommendations(ctx context.Context, to string, advice *models.Advice) (*SendEmailResult, error) {
	if advice == nil || len(advice.Recommendations) == 0 {
		return nil, ErrNothingToSend
	}

	data := buildDigest(advice)

	htmlBody, err := renderDigestHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Your top %d insurance recommendations", len(data.Items))

	return s.SendEmail(ctx, EmailParams{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: renderDigestText(data),
	})
}

func buildDigest(advice *models.Advice) digestData {
	items := make([]digestItem, 0, len(advice.Recommendations))
	for i, rec := range advice.Recommendations {
		items = append(items, digestItem{
			Rank:         i + 1,
			Name:         rec.Name,
			Type:         string(rec.Type),
			Coverage:     utils.FormatRupees(rec.Coverage),
			Premium:      utils.FormatRupees(rec.MonthlyPremium),
			CoPay:        rec.CoPay,
			MatchPercent: rec.MatchPercent,
			Explanation:  rec.Explanation,
		})
	}
	return digestData{
		Query:         advice.Query,
		Understanding: advice.Understanding.Summary,
		Items:         items,
		Comparison:    advice.Comparison,
	}
}

var digestTemplate = template.Must(template.New("recommendation_digest").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Segoe UI', Tahoma, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2b6cb0; color: white; padding: 24px; border-radius: 10px 10px 0 0; }
        .content { background: #f9f9f9; padding: 24px; border-radius: 0 0 10px 10px; }
        .card { background: white; border-radius: 8px; padding: 16px; margin: 12px 0; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        .card h3 { margin: 0 0 8px 0; color: #2b6cb0; }
        .badge { display: inline-block; background: #28a745; color: white; padding: 2px 10px; border-radius: 12px; font-weight: bold; }
        .footer { text-align: center; margin-top: 24px; color: #999; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>Your Insurance Recommendations</h1>
        <p>For: "{{.Query}}"</p>
    </div>
    <div class="content">
        {{if .Understanding}}<p>{{.Understanding}}</p>{{end}}
        {{range .Items}}
        <div class="card">
            <h3>{{.Rank}}. {{.Name}} <span class="badge">{{.MatchPercent}}% match</span></h3>
            <p>{{.Type}} | Coverage {{.Coverage}} | {{.Premium}}/month | Co-pay {{.CoPay}}%</p>
            {{if .Explanation}}<p>{{.Explanation}}</p>{{end}}
        </div>
        {{end}}
        {{if .Comparison}}<pre>{{.Comparison}}</pre>{{end}}
    </div>
    <div class="footer">
        <p>This email was sent by the Insurance Recommendation Engine.</p>
    </div>
</body>
</html>`))

func renderDigestHTML(data digestData) (string, error) {
	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderDigestText(data digestData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Recommendations for: %s\n\n", data.Query)
	if data.Understanding != "" {
		fmt.Fprintf(&b, "%s\n\n", data.Understanding)
	}

	for _, item := range data.Items {
		fmt.Fprintf(&b, "%d. %s (%d%% match)\n", item.Rank, item.Name, item.MatchPercent)
		fmt.Fprintf(&b, "   %s | Coverage %s | %s/month | Co-pay %d%%\n", item.Type, item.Coverage, item.Premium, item.CoPay)
		if item.Explanation != "" {
			fmt.Fprintf(&b, "   %s\n", item.Explanation)
		}
		b.WriteString("\n")
	}

	if data.Comparison != "" {
		fmt.Fprintf(&b, "%s\n\n", data.Comparison)
	}

	b.WriteString("Best regards,\nInsurance Recommendation Engine\n")
	return b.String()
}

// validEmail is a shape check only; SES performs real validation.
func validEmail(addr string) bool {
	at := strings.LastIndex(addr, "@")
	return at > 0 && at < len(addr)-1 && !strings.ContainsAny(addr, " \t\r\n")
}
