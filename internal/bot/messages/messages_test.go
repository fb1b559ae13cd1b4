package messages

import (
	"MediVerify/internal/core/domain"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewButtonsRoundTrip(t *testing.T) {
	id := uuid.New()
	buttons := ReviewButtons(id)
	require.Len(t, buttons, 1)
	require.Len(t, buttons[0], 2)

	action, got, err := ParseReviewData(buttons[0][0].Data)
	require.NoError(t, err)
	assert.Equal(t, ActionApprove, action)
	assert.Equal(t, id, got)

	action, _, err = ParseReviewData(buttons[0][1].Data)
	require.NoError(t, err)
	assert.Equal(t, ActionReject, action)
}

func TestParseReviewData_Malformed(t *testing.T) {
	for _, data := range []string{
		"review_approve",
		"review_delete_" + uuid.NewString(),
		"review_approve_not-a-uuid",
		"approval_accept_" + uuid.NewString(),
	} {
		_, _, err := ParseReviewData(data)
		assert.Error(t, err, data)
	}
}

func TestRequestCard_EscapesInput(t *testing.T) {
	now := time.Now()
	spec := "<script>"
	req := &domain.VerificationRequest{
		Verification: &domain.DoctorVerification{
			ID:          uuid.New(),
			Status:      domain.DoctorUnderReview,
			SubmittedAt: &now,
			Documents:   []domain.Document{{Name: "a&b.pdf", Kind: "license"}},
		},
		Profile: &domain.DoctorProfile{LicenseNumber: "MCI-1", Specialization: &spec},
		Doctor:  &domain.User{FullName: "Dr. <Rao>"},
	}

	card := RequestCard(req)
	assert.Contains(t, card, "Dr. &lt;Rao&gt;")
	assert.Contains(t, card, "a&amp;b.pdf")
	assert.NotContains(t, card, "<script>")
}

func TestBuilder(t *testing.T) {
	p := NewBuilder(42).WithText("hi").WithInlineButtons(ReviewButtons(uuid.New())).Build()
	assert.Equal(t, int64(42), p.ChatID)
	assert.Equal(t, "HTML", p.ParseMode)
	require.Len(t, p.Keyboard, 1)
	assert.Len(t, p.Keyboard[0], 2)

	p = NewBuilder(42).WithInlineButtons(nil).Build()
	assert.Nil(t, p.Keyboard)
}

func TestOutcome(t *testing.T) {
	notes := "blurry scan"
	assert.Contains(t, Outcome(&domain.DoctorVerification{Status: domain.DoctorApproved}), "approved")
	assert.Contains(t, Outcome(&domain.DoctorVerification{Status: domain.DoctorRejected, ReviewerNotes: &notes}), "blurry scan")
}
