package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gym-entry/internal/api/dto"
	"github.com/spec-kit/gym-entry/internal/auth"
	"github.com/spec-kit/gym-entry/internal/domain"
	"github.com/spec-kit/gym-entry/internal/policy"
	"github.com/spec-kit/gym-entry/internal/service"
)

// EntryOperations is the slice of the entry service the handlers call.
type EntryOperations interface {
	IssueToken(ctx context.Context, subjectID string) (service.IssueOutcome, error)
	Scan(ctx context.Context, rawToken, operatorID string) (service.EntryOutcome, error)
	ManualEntry(ctx context.Context, req service.ManualEntryRequest, operatorID string) (service.EntryOutcome, error)
	MembershipSummary(ctx context.Context, subjectID string) (*policy.MembershipSummary, error)
	RecentEntries(ctx context.Context, limit int) ([]domain.EntryRecord, error)
}

var _ EntryOperations = (*service.EntryService)(nil)

// EntryHandler exposes token, scan and desk-entry endpoints.
type EntryHandler struct {
	entries EntryOperations
}

// NewEntryHandler constructs handler.
func NewEntryHandler(entries EntryOperations) *EntryHandler {
	return &EntryHandler{entries: entries}
}

// IssueToken handles POST /api/entry/token.
func (h *EntryHandler) IssueToken(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	outcome, err := h.entries.IssueToken(c.UserContext(), principal.SubjectID)
	if err != nil {
		return err
	}
	if outcome.Token == nil {
		return writeDecision(c, outcome.Decision, "", nil)
	}

	member := dto.MemberBrief{}
	if subject := outcome.Decision.Subject; subject != nil {
		member.Name = subject.FullName()
		if subject.Membership != nil {
			member.MembershipPlan = subject.Membership.Plan.Name
		}
	}
	return c.JSON(dto.EntryTokenResponse{
		Success:    true,
		Token:      outcome.Token.Token,
		ExpiresAt:  outcome.Token.ExpiresAt.UTC(),
		TTLSeconds: outcome.Token.TTLSeconds,
		Member:     member,
	})
}

// Scan handles POST /api/entry/scan.
func (h *EntryHandler) Scan(c *fiber.Ctx) error {
	var req dto.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		return fiber.NewError(http.StatusBadRequest, "token required")
	}

	outcome, err := h.entries.Scan(c.UserContext(), req.Token, operatorID(c))
	if err != nil {
		return err
	}
	return writeOutcome(c, outcome)
}

// ManualEntry handles POST /api/admin/entry/manual.
func (h *EntryHandler) ManualEntry(c *fiber.Ctx) error {
	var req dto.ManualEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	outcome, err := h.entries.ManualEntry(c.UserContext(), service.ManualEntryRequest{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		WalkIn:    req.IsWalkIn,
	}, operatorID(c))
	if err != nil {
		return err
	}
	return writeOutcome(c, outcome)
}

// MyMembership handles GET /api/memberships/me.
func (h *EntryHandler) MyMembership(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	summary, err := h.entries.MembershipSummary(c.UserContext(), principal.SubjectID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MembershipResponse{
		IsActive:      summary.IsActive,
		DaysRemaining: summary.DaysRemaining,
		Message:       summary.Message,
		PlanName:      summary.PlanName,
		EndDate:       summary.EndDate.UTC(),
	}})
}

// EntryLogs handles GET /api/admin/entry-logs.
func (h *EntryHandler) EntryLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)

	records, err := h.entries.RecentEntries(c.UserContext(), limit)
	if err != nil {
		return err
	}

	resp := make([]dto.EntryLogResponse, 0, len(records))
	for _, record := range records {
		resp = append(resp, dto.EntryLogResponse{
			ID:          record.ID,
			SubjectID:   record.SubjectID,
			SubjectName: record.SubjectName,
			Method:      record.Method,
			EntryTime:   record.EntryTime.UTC(),
		})
	}
	return c.JSON(fiber.Map{"data": resp})
}

func operatorID(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return principal.SubjectID
	}
	return ""
}

func writeOutcome(c *fiber.Ctx, outcome service.EntryOutcome) error {
	var entryTime *time.Time
	if outcome.Entry != nil {
		t := outcome.Entry.EntryTime.UTC()
		entryTime = &t
	}
	return writeDecision(c, outcome.Decision, outcome.Method, entryTime)
}

func writeDecision(c *fiber.Ctx, decision domain.EntryDecision, method domain.EntryMethod, entryTime *time.Time) error {
	resp := dto.DecisionResponse{
		Success:   decision.Granted,
		Reason:    decision.Reason,
		Method:    method,
		WalkIn:    method == domain.EntryMethodWalkIn,
		EntryTime: entryTime,
	}
	if decision.Granted {
		resp.Message = grantedMessage(method)
	} else {
		resp.Error = denialMessage(decision.Reason)
	}

	if subject := decision.Subject; subject != nil {
		member := &dto.MemberBrief{ID: subject.ID, Name: subject.FullName(), Email: subject.Email}
		if m := subject.Membership; m != nil {
			member.MembershipPlan = m.Plan.Name
			end := m.EndDate.UTC()
			member.ExpiryDate = &end
		}
		resp.Member = member
	}

	return c.Status(decisionStatus(decision.Reason)).JSON(resp)
}

func decisionStatus(reason domain.ReasonCode) int {
	switch {
	case reason == domain.ReasonGranted:
		return http.StatusOK
	case reason.IsTokenFailure():
		return http.StatusUnauthorized
	case reason == domain.ReasonSubjectNotFound:
		return http.StatusNotFound
	case reason.IsPolicyFailure():
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func grantedMessage(method domain.EntryMethod) string {
	switch method {
	case domain.EntryMethodManual:
		return "Manual entry logged"
	case domain.EntryMethodWalkIn:
		return "Walk-in entry logged"
	case domain.EntryMethodQR:
		return "Entry granted"
	}
	return "Entry allowed"
}

var denialMessages = map[domain.ReasonCode]string{
	domain.ReasonTokenMalformed:               "Invalid QR code",
	domain.ReasonTokenInvalidSignature:        "Invalid QR code",
	domain.ReasonTokenInvalidPayload:          "Invalid QR code",
	domain.ReasonTokenReplayed:                "QR code already used",
	domain.ReasonTokenExpired:                 "QR code expired",
	domain.ReasonSubjectNotFound:              "Member not found",
	domain.ReasonSubjectBanned:                "Access denied",
	domain.ReasonSubjectInactive:              "Access denied",
	domain.ReasonNoMembership:                 "No active membership",
	domain.ReasonMembershipExpiredOrSuspended: "Membership expired or suspended",
}

func denialMessage(reason domain.ReasonCode) string {
	if msg, ok := denialMessages[reason]; ok {
		return msg
	}
	return "Access denied"
}
