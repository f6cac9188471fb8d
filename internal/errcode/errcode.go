package errcode

import "errors"

// Code is a machine-readable API error. Handlers decode it at the boundary and
// render {"code": N, "message": ...}; anything that is not a *Code collapses to
// UnexpectedErr so internals never leak to the caller.
type Code struct {
	Code    int
	Message string
}

func (c *Code) Error() string { return c.Message }

// Decode maps err to the code the handler should return. A nil error has no
// code; callers must not pass one.
func Decode(err error) *Code {
	var c *Code
	if errors.As(err, &c) {
		return c
	}
	return UnexpectedErr
}

// UnexpectedErr covers integrity violations, gateway failures and everything
// else the caller cannot act on. Always rendered as HTTP 500.
var UnexpectedErr = &Code{Code: 10000, Message: "unexpected error"}

// Input validation errors (HTTP 400).
var (
	ConsultationIdIsNotPositive      = &Code{Code: 30001, Message: "consultation id is not positive"}
	RatingIdIsNotPositive            = &Code{Code: 30002, Message: "rating id is not positive"}
	StoppedSettlementIdIsNotPositive = &Code{Code: 30003, Message: "stopped settlement id is not positive"}
	UserAccountIdIsNotPositive       = &Code{Code: 30004, Message: "user account id is not positive"}
	ConsultationReqIdIsNotPositive   = &Code{Code: 30005, Message: "consultation req id is not positive"}
	InvalidRating                    = &Code{Code: 30006, Message: "invalid rating"}
	IllegalPageSize                  = &Code{Code: 30007, Message: "illegal page size"}
	InvalidCandidateDateTime         = &Code{Code: 30008, Message: "invalid candidate date time"}
	InvalidPickedCandidate           = &Code{Code: 30009, Message: "invalid picked candidate"}
	SenderNameIsEmpty                = &Code{Code: 30010, Message: "sender name is empty"}
	RefundReasonIsEmpty              = &Code{Code: 30011, Message: "refund reason is empty"}
)

// Domain-state errors (HTTP 400).
var (
	FeePerHourInYenWasUpdated                = &Code{Code: 40001, Message: "fee per hour in yen was updated"}
	EndOfConsultationDateTimeHasNotPassedYet = &Code{Code: 40002, Message: "end of consultation date time has not passed yet"}
	UserAccountHasAlreadyBeenRated           = &Code{Code: 40003, Message: "user account has already been rated"}
	ConsultantAccountHasAlreadyBeenRated     = &Code{Code: 40004, Message: "consultant account has already been rated"}
	CreditFacilitiesAlreadyExpired           = &Code{Code: 40005, Message: "credit facilities already expired"}
	NoConsultationReqFound                   = &Code{Code: 40006, Message: "no consultation req found"}
	NoConsultationFound                      = &Code{Code: 40007, Message: "no consultation found"}
	NoSettlementFound                        = &Code{Code: 40008, Message: "no settlement found"}
	NoStoppedSettlementFound                 = &Code{Code: 40009, Message: "no stopped settlement found"}
	NoAwaitingPaymentFound                   = &Code{Code: 40010, Message: "no awaiting payment found"}
	NoAwaitingWithdrawalFound                = &Code{Code: 40011, Message: "no awaiting withdrawal found"}
	NoRatingFound                            = &Code{Code: 40012, Message: "no rating found"}
	NoConsultantFound                        = &Code{Code: 40013, Message: "no consultant found"}
	NotConsultationParticipant               = &Code{Code: 40014, Message: "not a participant of the consultation"}
)
