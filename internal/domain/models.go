package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Registration is a GST-registered business entity that owes RCM liability.
// All other entities are scoped to a registration for isolation.
type Registration struct {
	ID        uuid.UUID `db:"id" json:"id"`
	GSTIN     string    `db:"gstin" json:"gstin"`
	LegalName string    `db:"legal_name" json:"legal_name"`
	StateCode string    `db:"state_code" json:"state_code"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// User represents an authenticated user belonging to a registration.
type User struct {
	ID             uuid.UUID `db:"id" json:"id"`
	RegistrationID uuid.UUID `db:"registration_id" json:"registration_id"`
	Email          string    `db:"email" json:"email"`
	PasswordHash   string    `db:"password_hash" json:"-"`
	FullName       string    `db:"full_name" json:"full_name"`
	Role           UserRole  `db:"role" json:"role"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// TaxHeads carries per-head GST amounts. It is a value type used across the
// engine; entities persist the heads as flat columns.
type TaxHeads struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
	Cess decimal.Decimal `json:"cess"`
}

// Total returns the sum of all heads.
func (h TaxHeads) Total() decimal.Decimal {
	return h.CGST.Add(h.SGST).Add(h.IGST).Add(h.Cess)
}

// Add returns the head-wise sum of two TaxHeads.
func (h TaxHeads) Add(o TaxHeads) TaxHeads {
	return TaxHeads{
		CGST: h.CGST.Add(o.CGST),
		SGST: h.SGST.Add(o.SGST),
		IGST: h.IGST.Add(o.IGST),
		Cess: h.Cess.Add(o.Cess),
	}
}

// IsZero reports whether every head is zero.
func (h TaxHeads) IsZero() bool {
	return h.CGST.IsZero() && h.SGST.IsZero() && h.IGST.IsZero() && h.Cess.IsZero()
}

// NotifiedRule is one entry of the notified-rule registry: an HSN/SAC code
// family notified for reverse charge under a specific notification.
// Rules are immutable once published; a change is a new rule with a later
// effective_from and/or higher priority.
type NotifiedRule struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	Kind            RuleKind        `db:"kind" json:"kind"`
	CodePatterns    []string        `db:"-" json:"code_patterns"`
	Description     string          `db:"description" json:"description"`
	GSTRate         decimal.Decimal `db:"gst_rate" json:"gst_rate"`
	EffectiveFrom   time.Time       `db:"effective_from" json:"effective_from"`
	EffectiveTo     *time.Time      `db:"effective_to" json:"effective_to"`
	NotificationRef string          `db:"notification_ref" json:"notification_ref"`
	IsActive        bool            `db:"is_active" json:"is_active"`
	Priority        int             `db:"priority" json:"priority"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
}

// Supplier describes the counterparty of an inward supply.
type Supplier struct {
	RegistrationType  RegistrationType `db:"supplier_registration_type" json:"registration_type"`
	GSTIN             string           `db:"supplier_gstin" json:"gstin"`
	PAN               string           `db:"supplier_pan" json:"pan"`
	Name              string           `db:"supplier_name" json:"name"`
	Country           string           `db:"supplier_country" json:"country"`
	CompositionScheme bool             `db:"supplier_composition" json:"composition_scheme"`
}

// SelfInvoice is the document a recipient issues to itself when liable
// under reverse charge for a supply from an unregistered/foreign supplier.
type SelfInvoice struct {
	Number      string          `db:"self_invoice_number" json:"number"`
	Date        *time.Time      `db:"self_invoice_date" json:"date"`
	TaxableAmt  decimal.Decimal `db:"self_invoice_taxable" json:"taxable_amount"`
	CGSTAmount  decimal.Decimal `db:"self_invoice_cgst" json:"cgst_amount"`
	SGSTAmount  decimal.Decimal `db:"self_invoice_sgst" json:"sgst_amount"`
	IGSTAmount  decimal.Decimal `db:"self_invoice_igst" json:"igst_amount"`
	CessAmount  decimal.Decimal `db:"self_invoice_cess" json:"cess_amount"`
	TotalAmount decimal.Decimal `db:"self_invoice_total" json:"total_amount"`
}

// Payment records discharge of the RCM liability for a transaction.
type Payment struct {
	Date      *time.Time      `db:"payment_date" json:"date"`
	Mode      PaymentMode     `db:"payment_mode" json:"mode"`
	ChallanNo string          `db:"challan_no" json:"challan_no"`
	Amount    decimal.Decimal `db:"payment_amount" json:"amount"`
}

// Filing records whether/when the transaction was reported in a return.
type Filing struct {
	Reported   bool       `db:"filing_reported" json:"reported"`
	ReportedAt *time.Time `db:"filing_reported_at" json:"reported_at"`
	Period     string     `db:"filing_period" json:"period"`
}

// RCMTransaction is one inward supply event liable (or evaluated) for
// reverse charge. Created once per event; self-invoice and payment
// sub-records attach as they occur. Immutable after the return period in
// which it was reported closes.
type RCMTransaction struct {
	ID             uuid.UUID   `db:"id" json:"id"`
	RegistrationID uuid.UUID   `db:"registration_id" json:"registration_id"`
	Supplier       Supplier    `db:"" json:"supplier"`
	HSNSACCode     string      `db:"hsn_sac_code" json:"hsn_sac_code"`
	Category       string      `db:"category" json:"category"`
	Description    string      `db:"description" json:"description"`
	AssetClass     AssetClass  `db:"asset_class" json:"asset_class"`
	SupplyDate     time.Time   `db:"supply_date" json:"supply_date"`
	PlaceOfSupply  string      `db:"place_of_supply" json:"place_of_supply"`
	InvoiceNumber  string      `db:"invoice_number" json:"invoice_number"`
	InvoiceDate    *time.Time  `db:"invoice_date" json:"invoice_date"`
	ReturnPeriod   string      `db:"return_period" json:"return_period"`
	Classification RCMCategory `db:"classification" json:"classification"`
	TaxType        TaxType     `db:"tax_type" json:"tax_type"`

	TaxableAmount   decimal.Decimal  `db:"taxable_amount" json:"taxable_amount"`
	GSTRate         decimal.Decimal  `db:"gst_rate" json:"gst_rate"`
	CessRate        decimal.Decimal  `db:"cess_rate" json:"cess_rate"`
	ForeignAmount   *decimal.Decimal `db:"foreign_amount" json:"foreign_amount"`
	ExchangeRate    *decimal.Decimal `db:"exchange_rate" json:"exchange_rate"`
	ForeignCurrency string           `db:"foreign_currency" json:"foreign_currency"`

	CGSTAmount decimal.Decimal `db:"cgst_amount" json:"cgst_amount"`
	SGSTAmount decimal.Decimal `db:"sgst_amount" json:"sgst_amount"`
	IGSTAmount decimal.Decimal `db:"igst_amount" json:"igst_amount"`
	CessAmount decimal.Decimal `db:"cess_amount" json:"cess_amount"`
	TotalTax   decimal.Decimal `db:"total_tax" json:"total_tax"`

	SelfInvoice SelfInvoice `db:"" json:"self_invoice"`
	Payment     Payment     `db:"" json:"payment"`
	Filing      Filing      `db:"" json:"filing"`

	CreatedBy uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TaxHeads assembles the persisted per-head amounts as a value type.
func (t *RCMTransaction) TaxHeads() TaxHeads {
	return TaxHeads{CGST: t.CGSTAmount, SGST: t.SGSTAmount, IGST: t.IGSTAmount, Cess: t.CessAmount}
}

// TaxResult is the derived outcome of tax computation. It is a pure value,
// never persisted independently of the transaction that produced it.
type TaxResult struct {
	TaxableAmount decimal.Decimal  `json:"taxable_amount"`
	TaxType       TaxType          `json:"tax_type"`
	GSTRate       decimal.Decimal  `json:"gst_rate"`
	CessRate      decimal.Decimal  `json:"cess_rate"`
	Heads         TaxHeads         `json:"heads"`
	TotalTax      decimal.Decimal  `json:"total_tax"`
	TotalAmount   decimal.Decimal  `json:"total_amount"`
	ForeignAmount *decimal.Decimal `json:"foreign_amount,omitempty"`
	ExchangeRate  *decimal.Decimal `json:"exchange_rate,omitempty"`
}

// ITCEligibilityResult is one evaluation of input-tax-credit eligibility for
// a transaction. Re-evaluation appends a superseding result; results are
// never mutated in place.
type ITCEligibilityResult struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	RegistrationID  uuid.UUID       `db:"registration_id" json:"registration_id"`
	TransactionID   uuid.UUID       `db:"transaction_id" json:"transaction_id"`
	SupersedesID    *uuid.UUID      `db:"supersedes_id" json:"supersedes_id"`
	Eligible        bool            `db:"eligible" json:"eligible"`
	EligibleAmount  decimal.Decimal `db:"eligible_amount" json:"eligible_amount"`
	BlockedAmount   decimal.Decimal `db:"blocked_amount" json:"blocked_amount"`
	EligibleCGST    decimal.Decimal `db:"eligible_cgst" json:"eligible_cgst"`
	EligibleSGST    decimal.Decimal `db:"eligible_sgst" json:"eligible_sgst"`
	EligibleIGST    decimal.Decimal `db:"eligible_igst" json:"eligible_igst"`
	EligibleCess    decimal.Decimal `db:"eligible_cess" json:"eligible_cess"`
	EligiblePercent decimal.Decimal `db:"eligible_percent" json:"eligible_percent"`
	BlockedCategory BlockedCategory `db:"blocked_category" json:"blocked_category"`
	SectionRef      string          `db:"section_ref" json:"section_ref"`
	Reversal        bool            `db:"reversal" json:"reversal"`
	ReversalReason  string          `db:"reversal_reason" json:"reversal_reason"`
	ReversalAmount  decimal.Decimal `db:"reversal_amount" json:"reversal_amount"`
	Reclaim         bool            `db:"reclaim" json:"reclaim"`
	ReclaimAmount   decimal.Decimal `db:"reclaim_amount" json:"reclaim_amount"`
	ReclaimPeriod   string          `db:"reclaim_period" json:"reclaim_period"`
	TableTag        string          `db:"table_tag" json:"table_tag"`
	Notes           string          `db:"notes" json:"notes"`
	EvaluatedAt     time.Time       `db:"evaluated_at" json:"evaluated_at"`
}

// EligibleHeads assembles the persisted eligible split as a value type.
func (r *ITCEligibilityResult) EligibleHeads() TaxHeads {
	return TaxHeads{CGST: r.EligibleCGST, SGST: r.EligibleSGST, IGST: r.EligibleIGST, Cess: r.EligibleCess}
}

// CreditLedgerEntry is one append-only movement on the electronic credit
// ledger. Running balances are always recomputed by forward replay.
type CreditLedgerEntry struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	RegistrationID uuid.UUID       `db:"registration_id" json:"registration_id"`
	TransactionID  *uuid.UUID      `db:"transaction_id" json:"transaction_id"`
	EntryDate      time.Time       `db:"entry_date" json:"entry_date"`
	Type           LedgerEntryType `db:"entry_type" json:"type"`
	CGST           decimal.Decimal `db:"cgst" json:"cgst"`
	SGST           decimal.Decimal `db:"sgst" json:"sgst"`
	IGST           decimal.Decimal `db:"igst" json:"igst"`
	Cess           decimal.Decimal `db:"cess" json:"cess"`
	BalanceCGST    decimal.Decimal `db:"balance_cgst" json:"balance_cgst"`
	BalanceSGST    decimal.Decimal `db:"balance_sgst" json:"balance_sgst"`
	BalanceIGST    decimal.Decimal `db:"balance_igst" json:"balance_igst"`
	BalanceCess    decimal.Decimal `db:"balance_cess" json:"balance_cess"`
	Narration      string          `db:"narration" json:"narration"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// Heads assembles the entry's per-head amounts as a value type.
func (e *CreditLedgerEntry) Heads() TaxHeads {
	return TaxHeads{CGST: e.CGST, SGST: e.SGST, IGST: e.IGST, Cess: e.Cess}
}

// GSTR2BEntry is a third-party-reported purchase record for a period.
type GSTR2BEntry struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	RegistrationID uuid.UUID       `db:"registration_id" json:"registration_id"`
	SupplierGSTIN  string          `db:"supplier_gstin" json:"supplier_gstin"`
	InvoiceNumber  string          `db:"invoice_number" json:"invoice_number"`
	InvoiceDate    time.Time       `db:"invoice_date" json:"invoice_date"`
	TaxableAmount  decimal.Decimal `db:"taxable_amount" json:"taxable_amount"`
	CGST           decimal.Decimal `db:"cgst" json:"cgst"`
	SGST           decimal.Decimal `db:"sgst" json:"sgst"`
	IGST           decimal.Decimal `db:"igst" json:"igst"`
	Cess           decimal.Decimal `db:"cess" json:"cess"`
	EligibleAmount decimal.Decimal `db:"eligible_amount" json:"eligible_amount"`
	BlockedAmount  decimal.Decimal `db:"blocked_amount" json:"blocked_amount"`
	Period         string          `db:"period" json:"period"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// ClaimMatch pairs one ITC claim against the GSTR-2B feed.
type ClaimMatch struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	SupplierGSTIN string          `json:"supplier_gstin"`
	InvoiceNumber string          `json:"invoice_number"`
	Status        MatchStatus     `json:"status"`
	ClaimedAmount decimal.Decimal `json:"claimed_amount"`
	ReportedAmt   decimal.Decimal `json:"reported_amount"`
	Difference    decimal.Decimal `json:"difference"`
	Violation     bool            `json:"violation"`
	Detail        string          `json:"detail"`
}

// ComplianceViolation is a recorded (not thrown) reconciliation failure.
type ComplianceViolation struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	Code          string    `json:"code"`
	Detail        string    `json:"detail"`
}

// ReconciliationResult is the derived match report for a return period.
// Not mutated once the period is marked reconciled.
type ReconciliationResult struct {
	ID             uuid.UUID             `db:"id" json:"id"`
	RegistrationID uuid.UUID             `db:"registration_id" json:"registration_id"`
	Period         string                `db:"period" json:"period"`
	Matched        []ClaimMatch          `db:"-" json:"matched"`
	Unmatched      []ClaimMatch          `db:"-" json:"unmatched"`
	Mismatched     []ClaimMatch          `db:"-" json:"mismatched"`
	Violations     []ComplianceViolation `db:"-" json:"violations"`
	MatchPercent   decimal.Decimal       `db:"match_percent" json:"match_percent"`
	IsReconciled   bool                  `db:"is_reconciled" json:"is_reconciled"`
	RunAt          time.Time             `db:"run_at" json:"run_at"`
}

// ComplianceRecord tracks the statutory due date and interest for one
// transaction. Recomputed idempotently; never hand-edited.
type ComplianceRecord struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	RegistrationID  uuid.UUID       `db:"registration_id" json:"registration_id"`
	TransactionID   uuid.UUID       `db:"transaction_id" json:"transaction_id"`
	DueDate         time.Time       `db:"due_date" json:"due_date"`
	Status          PaymentStatus   `db:"status" json:"status"`
	OverdueCategory OverdueCategory `db:"overdue_category" json:"overdue_category"`
	DaysOverdue     int             `db:"days_overdue" json:"days_overdue"`
	InterestAmount  decimal.Decimal `db:"interest_amount" json:"interest_amount"`
	ReturnPeriod    string          `db:"return_period" json:"return_period"`
	ComputedAt      time.Time       `db:"computed_at" json:"computed_at"`
}

// ReturnPeriod tracks the filing lifecycle of one tax period (MMYYYY).
type ReturnPeriod struct {
	ID             uuid.UUID    `db:"id" json:"id"`
	RegistrationID uuid.UUID    `db:"registration_id" json:"registration_id"`
	Period         string       `db:"period" json:"period"`
	Status         PeriodStatus `db:"status" json:"status"`
	FiledAt        *time.Time   `db:"filed_at" json:"filed_at"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}
