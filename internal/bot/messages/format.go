package messages

import (
	"MediVerify/internal/core/domain"
	"MediVerify/internal/core/ports"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
)

// Callback data for review buttons: review_<action>_<verification id>.
const (
	ReviewPrefix  = "review_"
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// ReviewButtons returns the approve/reject keyboard for one request.
func ReviewButtons(id uuid.UUID) ports.Keyboard {
	return ports.Keyboard{{
		{Text: "✅ Approve", Data: ReviewPrefix + ActionApprove + "_" + id.String()},
		{Text: "❌ Reject", Data: ReviewPrefix + ActionReject + "_" + id.String()},
	}}
}

// ParseReviewData splits review callback data into its action and id.
func ParseReviewData(data string) (string, uuid.UUID, error) {
	parts := strings.SplitN(data, "_", 3)
	if len(parts) != 3 || parts[0]+"_" != ReviewPrefix {
		return "", uuid.Nil, fmt.Errorf("malformed review callback %q", data)
	}
	if parts[1] != ActionApprove && parts[1] != ActionReject {
		return "", uuid.Nil, fmt.Errorf("unknown review action %q", parts[1])
	}
	id, err := uuid.Parse(parts[2])
	if err != nil {
		return "", uuid.Nil, fmt.Errorf("bad verification id: %w", err)
	}
	return parts[1], id, nil
}

// RequestCard renders a verification request for a reviewer.
func RequestCard(req *domain.VerificationRequest) string {
	var sb strings.Builder
	v := req.Verification

	name := "unknown doctor"
	if req.Doctor != nil {
		name = req.Doctor.FullName
	}
	fmt.Fprintf(&sb, "<b>%s</b>\n", html.EscapeString(name))
	fmt.Fprintf(&sb, "Status: %s\n", v.Status)
	if v.SubmittedAt != nil {
		fmt.Fprintf(&sb, "Submitted: %s\n", v.SubmittedAt.Format("2006-01-02 15:04"))
	}

	if p := req.Profile; p != nil {
		fmt.Fprintf(&sb, "License: %s\n", html.EscapeString(p.LicenseNumber))
		if p.Specialization != nil {
			fmt.Fprintf(&sb, "Specialization: %s\n", html.EscapeString(*p.Specialization))
		}
		if p.ExperienceYears != nil {
			fmt.Fprintf(&sb, "Experience: %d years\n", *p.ExperienceYears)
		}
	} else {
		sb.WriteString("No profile saved yet\n")
	}

	if len(v.Documents) > 0 {
		sb.WriteString("Documents:\n")
		for _, d := range v.Documents {
			fmt.Fprintf(&sb, "• %s (%s)\n", html.EscapeString(d.Name), html.EscapeString(d.Kind))
		}
	}
	fmt.Fprintf(&sb, "<code>%s</code>", v.ID)
	return sb.String()
}

// StatsText renders the review queue summary.
func StatsText(s *domain.VerificationStats) string {
	return fmt.Sprintf(
		"<b>Verification stats</b>\nPending: %d (under review: %d)\nApproved: %d\nRejected: %d\nVerified doctors: %d\nDoctors: %d\nPatients: %d",
		s.Pending, s.UnderReview, s.Approved, s.Rejected, s.VerifiedDoctors, s.TotalDoctors, s.TotalPatients,
	)
}

// Outcome renders the result of a review for the doctor.
func Outcome(v *domain.DoctorVerification) string {
	switch v.Status {
	case domain.DoctorApproved:
		return "✅ Your credentials were approved. Your profile is now visible to patients."
	case domain.DoctorRejected:
		text := "❌ Your credential verification was rejected."
		if v.ReviewerNotes != nil && *v.ReviewerNotes != "" {
			text += "\nReviewer notes: " + html.EscapeString(*v.ReviewerNotes)
		}
		return text + "\nYou can upload new documents and resubmit."
	default:
		return fmt.Sprintf("Your credential verification is now %s.", v.Status)
	}
}
