package models

import "time"

// PaymentStatus is the state of a [Payment] in the approval workflow.
type PaymentStatus string

const (
	// PaymentPending is the initial state of every submitted payment.
	PaymentPending PaymentStatus = "pending"
	// PaymentApproved is terminal; points have been (or must be) credited.
	PaymentApproved PaymentStatus = "approved"
	// PaymentRejected is terminal; the ledger is never touched.
	PaymentRejected PaymentStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentApproved || s == PaymentRejected
}

// Payment is a purchase of a catalog package awaiting or past admin review.
type Payment struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`

	// UserName and UserEmail are a snapshot taken at submission.
	UserName  string `json:"userName"`
	UserEmail string `json:"userEmail"`

	PackageType PackageType `json:"packageType"`
	PackageName string      `json:"packageName"`

	// Points and Amount always equal the catalog entry of PackageType.
	Points int64 `json:"points"`
	Amount int64 `json:"amount"`

	Method string `json:"method"`

	// ProofReference points to the uploaded transfer evidence.
	ProofReference string `json:"proofReference"`

	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`

	ApprovedAt   *time.Time `json:"approvedAt,omitempty"`
	RejectedAt   *time.Time `json:"rejectedAt,omitempty"`
	RejectReason *string    `json:"rejectReason,omitempty"`

	// CreditedAt is set once the ledger credit for an approved payment
	// has been written. Approved payments without it are uncredited.
	CreditedAt *time.Time `json:"creditedAt,omitempty"`
}

// PaymentPatch describes a partial update of a [Payment].
//
// When ExpectedStatus is set the update is applied only if the stored
// status still equals it.
type PaymentPatch struct {
	Status       *PaymentStatus
	ApprovedAt   *time.Time
	RejectedAt   *time.Time
	RejectReason *string
	CreditedAt   *time.Time

	ExpectedStatus *PaymentStatus
}

// Apply returns a copy of p with the patch applied.
func (pp PaymentPatch) Apply(p Payment) Payment {
	if pp.Status != nil {
		p.Status = *pp.Status
	}
	if pp.ApprovedAt != nil {
		t := *pp.ApprovedAt
		p.ApprovedAt = &t
	}
	if pp.RejectedAt != nil {
		t := *pp.RejectedAt
		p.RejectedAt = &t
	}
	if pp.RejectReason != nil {
		r := *pp.RejectReason
		p.RejectReason = &r
	}
	if pp.CreditedAt != nil {
		t := *pp.CreditedAt
		p.CreditedAt = &t
	}
	return p
}

// PaymentSubmission is the client input for a new payment. Points and
// Amount are what the client claims; they are checked against the catalog.
type PaymentSubmission struct {
	UserID         string      `json:"-"`
	PackageType    PackageType `json:"packageType"`
	Points         int64       `json:"points"`
	Amount         int64       `json:"amount"`
	Method         string      `json:"method"`
	ProofReference string      `json:"-"`
}

// RejectRequest carries the admin's reason for rejecting a payment.
type RejectRequest struct {
	Reason string `json:"reason"`
}
