package ses

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appConfig "insurance-recommendation-engine/internal/config"
	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/utils"
)

type fakeMailer struct {
	sent []*ses.SendEmailInput
	err  error
}

func (f *fakeMailer) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, in)
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func sampleAdvice() *models.Advice {
	return &models.Advice{
		Query:         "I'm a 22-year-old student",
		Understanding: models.QueryUnderstanding{Summary: "Detected age: 22 years"},
		Recommendations: []models.AdvisedProduct{
			{
				Recommendation: models.Recommendation{
					ID:             "P001",
					Name:           "Student Health Shield",
					Type:           models.ProductTypeHealth,
					Coverage:       500000,
					MonthlyPremium: 650,
					CoPay:          10,
				},
				Explanation:  "Designed specifically for students",
				MatchPercent: 100,
			},
		},
	}
}

func TestSendRecommendations(t *testing.T) {
	utils.SetLogger(nil)
	mailer := &fakeMailer{}
	svc := NewWithClient(mailer, "noreply@example.com")

	res, err := svc.SendRecommendations(context.Background(), "user@example.com", sampleAdvice())
	require.NoError(t, err)
	assert.Equal(t, "msg-1", res.MessageID)

	require.Len(t, mailer.sent, 1)
	in := mailer.sent[0]
	assert.Equal(t, "noreply@example.com", aws.ToString(in.Source))
	assert.Equal(t, []string{"user@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "Your top 1 insurance recommendations", aws.ToString(in.Message.Subject.Data))

	html := aws.ToString(in.Message.Body.Html.Data)
	assert.Contains(t, html, "Student Health Shield")
	assert.Contains(t, html, "100% match")
	assert.Contains(t, html, "₹500,000")

	text := aws.ToString(in.Message.Body.Text.Data)
	assert.Contains(t, text, "1. Student Health Shield (100% match)")
	assert.Contains(t, text, "Co-pay 10%")
	assert.Contains(t, text, "Designed specifically for students")
	assert.Contains(t, text, "Detected age: 22 years")
}

func TestSendRecommendations_Rejects(t *testing.T) {
	utils.SetLogger(nil)
	mailer := &fakeMailer{}
	svc := NewWithClient(mailer, "noreply@example.com")
	ctx := context.Background()

	_, err := svc.SendRecommendations(ctx, "user@example.com", &models.Advice{})
	assert.ErrorIs(t, err, ErrNothingToSend)

	_, err = svc.SendRecommendations(ctx, "not-an-address", sampleAdvice())
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	assert.Empty(t, mailer.sent)
}

func TestSendEmail_ClientError(t *testing.T) {
	utils.SetLogger(nil)
	boom := errors.New("throttled")
	svc := NewWithClient(&fakeMailer{err: boom}, "noreply@example.com")

	_, err := svc.SendEmail(context.Background(), EmailParams{To: "a@b.com", Subject: "x", TextBody: "y"})
	assert.ErrorIs(t, err, boom)
}

func TestNewService_RequiresSender(t *testing.T) {
	_, err := NewService(context.Background(), &appConfig.Config{AWSRegion: "ap-south-1"})
	assert.ErrorIs(t, err, ErrSenderNotConfigured)
}

func TestValidEmail(t *testing.T) {
	assert.True(t, validEmail("a@b.co"))
	assert.False(t, validEmail(""))
	assert.False(t, validEmail("@b.co"))
	assert.False(t, validEmail("a@"))
	assert.False(t, validEmail("a b@c.d"))
}
