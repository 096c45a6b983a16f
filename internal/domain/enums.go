package domain

// RegistrationType classifies a supplier's GST registration status.
type RegistrationType string

const (
	RegistrationRegistered   RegistrationType = "registered"
	RegistrationUnregistered RegistrationType = "unregistered"
	RegistrationForeign      RegistrationType = "foreign"
)

// RCMCategory is the reverse-charge classification of an inward supply.
type RCMCategory string

const (
	RCMNotifiedService RCMCategory = "notified_service"
	RCMNotifiedGoods   RCMCategory = "notified_goods"
	RCMImportService   RCMCategory = "import_service"
	RCMUnregistered    RCMCategory = "unregistered"
	RCMNone            RCMCategory = "none"
)

// TaxType determines how GST splits across heads.
type TaxType string

const (
	TaxTypeCGSTSGST TaxType = "cgst_sgst"
	TaxTypeIGST     TaxType = "igst"
)

// RuleKind distinguishes notified service rules from notified goods rules.
type RuleKind string

const (
	RuleKindService RuleKind = "service"
	RuleKindGoods   RuleKind = "goods"
)

// LedgerEntryType is the kind of a credit ledger entry.
type LedgerEntryType string

const (
	LedgerCredit     LedgerEntryType = "credit"
	LedgerDebit      LedgerEntryType = "debit"
	LedgerReversal   LedgerEntryType = "reversal"
	LedgerAdjustment LedgerEntryType = "adjustment"
)

// PaymentStatus is the lifecycle of an RCM liability payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// OverdueCategory buckets how late an RCM payment is.
type OverdueCategory string

const (
	OverdueNone     OverdueCategory = "not_overdue"
	OverdueMinor    OverdueCategory = "minor"
	OverdueMajor    OverdueCategory = "major"
	OverdueCritical OverdueCategory = "critical"
)

// PaymentMode is the channel an RCM liability was discharged through.
type PaymentMode string

const (
	PaymentModeCash       PaymentMode = "cash"
	PaymentModeNetBanking PaymentMode = "netbanking"
	PaymentModeNEFT       PaymentMode = "neft"
	PaymentModeRTGS       PaymentMode = "rtgs"
	PaymentModeUPI        PaymentMode = "upi"
)

// AllowedPaymentModes is the fixed set accepted by payment validation.
var AllowedPaymentModes = map[PaymentMode]bool{
	PaymentModeCash:       true,
	PaymentModeNetBanking: true,
	PaymentModeNEFT:       true,
	PaymentModeRTGS:       true,
	PaymentModeUPI:        true,
}

// AssetClass buckets ITC for GSTR-3B table 4(A)(3).
type AssetClass string

const (
	AssetInputs        AssetClass = "inputs"
	AssetInputServices AssetClass = "input_services"
	AssetCapitalGoods  AssetClass = "capital_goods"
)

// BlockedCategory identifies a Section 17(5) blocked-credit bucket.
type BlockedCategory string

const (
	BlockedMotorVehicle BlockedCategory = "motor_vehicle"
	BlockedFoodBeverage BlockedCategory = "food_beverage"
	BlockedMembership   BlockedCategory = "membership"
	BlockedConstruction BlockedCategory = "construction"
	BlockedPersonalUse  BlockedCategory = "personal_use"
	BlockedLostStolen   BlockedCategory = "lost_stolen_destroyed"
	BlockedCSR          BlockedCategory = "csr"
)

// UsagePurpose describes what an inward supply is used for.
type UsagePurpose string

const (
	UsageBusiness UsagePurpose = "business"
	UsagePersonal UsagePurpose = "personal"
	UsageMixed    UsagePurpose = "mixed"
	UsageCSR      UsagePurpose = "csr"
)

// MatchStatus is the outcome of a GSTR-2B claim match.
type MatchStatus string

const (
	MatchMatched   MatchStatus = "matched"
	MatchUnmatched MatchStatus = "unmatched"
	MatchMismatch  MatchStatus = "mismatch"
)

// PeriodStatus is the filing lifecycle of a return period.
type PeriodStatus string

const (
	PeriodOpen       PeriodStatus = "open"
	PeriodReconciled PeriodStatus = "reconciled"
	PeriodFiled      PeriodStatus = "filed"
)

// UserRole defines the role hierarchy within a registration.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)
