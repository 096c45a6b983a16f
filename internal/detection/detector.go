package detection

import (
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/rules"
)

// gstinPattern is the structural shape of a GSTIN: 2-digit state code,
// 10-char PAN, entity code, literal Z, check digit.
var gstinPattern = regexp.MustCompile(`^\d{2}[A-Z]{5}\d{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// Place-of-supply values that mean the supply happened outside India.
const posOutsideIndia = "96"

// Input carries everything detection needs about one inward supply.
// The reference date is explicit so classification is reproducible.
type Input struct {
	Supplier           domain.Supplier
	HSNSACCode         string
	TaxableAmount      decimal.Decimal
	SupplyDate         time.Time
	RecipientGSTIN     string
	RecipientStateCode string
	PlaceOfSupply      string
}

// Result is the classification outcome for one inward supply.
type Result struct {
	Applies         bool
	Category        domain.RCMCategory
	TaxType         domain.TaxType
	GSTRate         decimal.Decimal
	RuleID          *uuid.UUID
	NotificationRef string
	DefaultHSN      string
	SupplierCode    string
	Reason          string
}

// ForeignSupplierInfo is best-effort enrichment for known foreign suppliers.
type ForeignSupplierInfo struct {
	DefaultHSN   string
	SupplierCode string
}

// ForeignSupplierLookup resolves known foreign suppliers by name or country.
// Implementations may fail freely; detection never propagates their errors.
type ForeignSupplierLookup interface {
	Lookup(name, country string) (*ForeignSupplierInfo, error)
}

// Detector classifies inward supplies against the notified-rule registry.
type Detector struct {
	registry *rules.Registry
	foreign  ForeignSupplierLookup
}

// NewDetector creates a Detector. The foreign lookup may be nil.
func NewDetector(registry *rules.Registry, foreign ForeignSupplierLookup) *Detector {
	return &Detector{registry: registry, foreign: foreign}
}

// IsValidGSTIN reports whether a GSTIN is structurally valid.
func IsValidGSTIN(gstin string) bool {
	return gstinPattern.MatchString(strings.ToUpper(strings.TrimSpace(gstin)))
}

// isImport reports whether the supply originated outside India.
func isImport(in *Input) bool {
	country := strings.ToUpper(strings.TrimSpace(in.Supplier.Country))
	if country != "" && country != "IN" && country != "IND" && country != "INDIA" {
		return true
	}
	pos := strings.ToUpper(strings.TrimSpace(in.PlaceOfSupply))
	return pos == posOutsideIndia || strings.Contains(pos, "OUTSIDE INDIA")
}

// taxTypeFor compares place of supply against the recipient's state code.
func taxTypeFor(in *Input) domain.TaxType {
	pos := strings.TrimSpace(in.PlaceOfSupply)
	if len(pos) >= 2 && pos[:2] == in.RecipientStateCode {
		return domain.TaxTypeCGSTSGST
	}
	return domain.TaxTypeIGST
}

// Detect classifies a transaction, first match wins:
// notified rule, then import, then unregistered supplier, else no RCM.
func (d *Detector) Detect(in Input) (Result, error) {
	if strings.TrimSpace(in.RecipientGSTIN) == "" {
		return Result{}, fmt.Errorf("%w: recipient gstin is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.PlaceOfSupply) == "" {
		return Result{}, fmt.Errorf("%w: place of supply is required", domain.ErrValidation)
	}
	if !in.TaxableAmount.IsPositive() {
		return Result{}, fmt.Errorf("%w: taxable amount must be positive", domain.ErrValidation)
	}
	if in.RecipientStateCode == "" && len(in.RecipientGSTIN) >= 2 {
		in.RecipientStateCode = in.RecipientGSTIN[:2]
	}

	// 1. Notified HSN/SAC code.
	if in.HSNSACCode != "" {
		if rule := d.registry.Match(in.HSNSACCode, in.SupplyDate); rule != nil {
			category := domain.RCMNotifiedService
			if rule.Kind == domain.RuleKindGoods {
				category = domain.RCMNotifiedGoods
			}
			return Result{
				Applies:         true,
				Category:        category,
				TaxType:         taxTypeFor(&in),
				GSTRate:         rule.GSTRate,
				RuleID:          &rule.ID,
				NotificationRef: rule.NotificationRef,
				Reason:          fmt.Sprintf("hsn/sac %s notified under %s", in.HSNSACCode, rule.NotificationRef),
			}, nil
		}
	}

	// 2. Import of services: always IGST, never CGST/SGST.
	if isImport(&in) {
		res := Result{
			Applies:  true,
			Category: domain.RCMImportService,
			TaxType:  domain.TaxTypeIGST,
			Reason:   "supply received from outside India",
		}
		d.enrichForeign(&in, &res)
		return res, nil
	}

	// 3. Unregistered or composition supplier.
	if !IsValidGSTIN(in.Supplier.GSTIN) || in.Supplier.CompositionScheme {
		reason := "supplier gstin is structurally invalid"
		if in.Supplier.CompositionScheme {
			reason = "supplier is under composition scheme"
		}
		return Result{
			Applies:  true,
			Category: domain.RCMUnregistered,
			TaxType:  taxTypeFor(&in),
			Reason:   reason,
		}, nil
	}

	return Result{Applies: false, Category: domain.RCMNone, Reason: "no reverse charge condition met"}, nil
}

// enrichForeign fills default HSN and supplier code from the known-foreign
// supplier lookup. Lookup failures are swallowed: enrichment must never
// block detection.
func (d *Detector) enrichForeign(in *Input, res *Result) {
	if d.foreign == nil {
		return
	}
	info, err := d.foreign.Lookup(in.Supplier.Name, in.Supplier.Country)
	if err != nil {
		log.Printf("detection: foreign supplier lookup failed for %q: %v", in.Supplier.Name, err)
		return
	}
	if info != nil {
		res.DefaultHSN = info.DefaultHSN
		res.SupplierCode = info.SupplierCode
	}
}
