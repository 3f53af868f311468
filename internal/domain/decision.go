package domain

// ReasonCode is the closed set of outcomes an entry attempt can have.
type ReasonCode string

const (
	ReasonTokenMalformed        ReasonCode = "TOKEN_MALFORMED"
	ReasonTokenInvalidSignature ReasonCode = "TOKEN_INVALID_SIGNATURE"
	ReasonTokenReplayed         ReasonCode = "TOKEN_REPLAYED"
	ReasonTokenInvalidPayload   ReasonCode = "TOKEN_INVALID_PAYLOAD"
	ReasonTokenExpired          ReasonCode = "TOKEN_EXPIRED"

	ReasonSubjectNotFound              ReasonCode = "SUBJECT_NOT_FOUND"
	ReasonSubjectBanned                ReasonCode = "SUBJECT_BANNED"
	ReasonSubjectInactive              ReasonCode = "SUBJECT_INACTIVE"
	ReasonNoMembership                 ReasonCode = "NO_MEMBERSHIP"
	ReasonMembershipExpiredOrSuspended ReasonCode = "MEMBERSHIP_EXPIRED_OR_SUSPENDED"

	ReasonGranted ReasonCode = "GRANTED"
)

// IsTokenFailure reports whether the code came from the token pipeline.
func (r ReasonCode) IsTokenFailure() bool {
	switch r {
	case ReasonTokenMalformed, ReasonTokenInvalidSignature, ReasonTokenReplayed,
		ReasonTokenInvalidPayload, ReasonTokenExpired:
		return true
	}
	return false
}

// IsPolicyFailure reports whether the code is an account or membership denial.
func (r ReasonCode) IsPolicyFailure() bool {
	switch r {
	case ReasonSubjectNotFound, ReasonSubjectBanned, ReasonSubjectInactive,
		ReasonNoMembership, ReasonMembershipExpiredOrSuspended:
		return true
	}
	return false
}

// EntryDecision is the verdict for one entry attempt.
type EntryDecision struct {
	Granted bool
	Reason  ReasonCode
	Subject *Subject
}

// Deny builds a refusal carrying the given reason.
func Deny(reason ReasonCode, subject *Subject) EntryDecision {
	return EntryDecision{Granted: false, Reason: reason, Subject: subject}
}

// Grant builds a successful decision.
func Grant(subject *Subject) EntryDecision {
	return EntryDecision{Granted: true, Reason: ReasonGranted, Subject: subject}
}
