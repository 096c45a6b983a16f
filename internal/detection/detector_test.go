package detection

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/rules"
)

const (
	recipientGSTIN = "27AAPFU0939F1ZV" // Maharashtra (27)
	validSupplier  = "29AAGCB7383J1Z4" // Karnataka (29)
)

func testDetector(foreign ForeignSupplierLookup) *Detector {
	return NewDetector(rules.NewRegistry(rules.SeedRules()), foreign)
}

func baseInput() Input {
	return Input{
		Supplier: domain.Supplier{
			RegistrationType: domain.RegistrationRegistered,
			GSTIN:            validSupplier,
			Country:          "IN",
		},
		TaxableAmount:  decimal.NewFromInt(50000),
		SupplyDate:     time.Date(2024, time.May, 10, 0, 0, 0, 0, time.UTC),
		RecipientGSTIN: recipientGSTIN,
		PlaceOfSupply:  "27",
	}
}

func TestDetect_ValidationErrors(t *testing.T) {
	d := testDetector(nil)

	in := baseInput()
	in.RecipientGSTIN = ""
	_, err := d.Detect(in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = baseInput()
	in.PlaceOfSupply = ""
	_, err = d.Detect(in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = baseInput()
	in.TaxableAmount = decimal.Zero
	_, err = d.Detect(in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = baseInput()
	in.TaxableAmount = decimal.NewFromInt(-5)
	_, err = d.Detect(in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDetect_NotifiedService(t *testing.T) {
	d := testDetector(nil)
	in := baseInput()
	in.HSNSACCode = "998213" // legal services

	res, err := d.Detect(in)
	require.NoError(t, err)
	assert.True(t, res.Applies)
	assert.Equal(t, domain.RCMNotifiedService, res.Category)
	assert.Equal(t, domain.TaxTypeCGSTSGST, res.TaxType, "same-state supply splits CGST/SGST")
	assert.True(t, res.GSTRate.Equal(decimal.NewFromInt(18)))
	require.NotNil(t, res.RuleID)
}

func TestDetect_NotifiedGoods_Interstate(t *testing.T) {
	d := testDetector(nil)
	in := baseInput()
	in.HSNSACCode = "2401" // tobacco leaves
	in.PlaceOfSupply = "29"

	res, err := d.Detect(in)
	require.NoError(t, err)
	assert.Equal(t, domain.RCMNotifiedGoods, res.Category)
	assert.Equal(t, domain.TaxTypeIGST, res.TaxType, "different state goes IGST")
}

func TestDetect_ImportService_AlwaysIGST(t *testing.T) {
	d := testDetector(nil)
	in := baseInput()
	in.Supplier.GSTIN = ""
	in.Supplier.RegistrationType = domain.RegistrationForeign
	in.Supplier.Country = "US"
	in.PlaceOfSupply = "27" // POS equal to recipient state must not matter

	res, err := d.Detect(in)
	require.NoError(t, err)
	assert.Equal(t, domain.RCMImportService, res.Category)
	assert.Equal(t, domain.TaxTypeIGST, res.TaxType, "imports never split CGST/SGST")
}

func TestDetect_ImportByPlaceOfSupply(t *testing.T) {
	d := testDetector(nil)
	in := baseInput()
	in.Supplier.Country = ""
	in.PlaceOfSupply = "96"

	res, err := d.Detect(in)
	require.NoError(t, err)
	assert.Equal(t, domain.RCMImportService, res.Category)
}

func TestDetect_Unregistered(t *testing.T) {
	d := testDetector(nil)

	in := baseInput()
	in.Supplier.GSTIN = "BADGSTIN"
	res, err := d.Detect(in)
	require.NoError(t, err)
	assert.Equal(t, domain.RCMUnregistered, res.Category)
	assert.Equal(t, domain.TaxTypeCGSTSGST, res.TaxType)

	in = baseInput()
	in.Supplier.GSTIN = ""
	in.PlaceOfSupply = "29"
	res, err = d.Detect(in)
	require.NoError(t, err)
	assert.Equal(t, domain.RCMUnregistered, res.Category)
	assert.Equal(t, domain.TaxTypeIGST, res.TaxType)

	// Structurally valid GSTIN but composition supplier.
	in = baseInput()
	in.Supplier.CompositionScheme = true
	res, err = d.Detect(in)
	require.NoError(t, err)
	assert.Equal(t, domain.RCMUnregistered, res.Category)
}

func TestDetect_NoRCM(t *testing.T) {
	d := testDetector(nil)
	in := baseInput()
	in.HSNSACCode = "8471" // not notified

	res, err := d.Detect(in)
	require.NoError(t, err)
	assert.False(t, res.Applies)
	assert.Equal(t, domain.RCMNone, res.Category)
}

func TestDetect_PriorityOrder(t *testing.T) {
	d := testDetector(nil)

	// Notified code + foreign supplier: notified wins.
	in := baseInput()
	in.HSNSACCode = "998213"
	in.Supplier.Country = "US"
	in.Supplier.GSTIN = ""
	res, err := d.Detect(in)
	require.NoError(t, err)
	assert.Equal(t, domain.RCMNotifiedService, res.Category)

	// Foreign + invalid GSTIN: import wins over unregistered.
	in = baseInput()
	in.HSNSACCode = ""
	in.Supplier.Country = "US"
	in.Supplier.GSTIN = "INVALID"
	res, err = d.Detect(in)
	require.NoError(t, err)
	assert.Equal(t, domain.RCMImportService, res.Category)
}

type stubForeignLookup struct {
	info *ForeignSupplierInfo
	err  error
}

func (s *stubForeignLookup) Lookup(_, _ string) (*ForeignSupplierInfo, error) {
	return s.info, s.err
}

func TestDetect_ForeignEnrichment(t *testing.T) {
	d := testDetector(&stubForeignLookup{info: &ForeignSupplierInfo{DefaultHSN: "998314", SupplierCode: "AWS-US"}})
	in := baseInput()
	in.Supplier.Country = "US"
	in.Supplier.GSTIN = ""

	res, err := d.Detect(in)
	require.NoError(t, err)
	assert.Equal(t, "998314", res.DefaultHSN)
	assert.Equal(t, "AWS-US", res.SupplierCode)
}

func TestDetect_ForeignEnrichmentFailureSwallowed(t *testing.T) {
	d := testDetector(&stubForeignLookup{err: errors.New("lookup backend down")})
	in := baseInput()
	in.Supplier.Country = "US"
	in.Supplier.GSTIN = ""

	res, err := d.Detect(in)
	require.NoError(t, err, "enrichment failure must not block detection")
	assert.Equal(t, domain.RCMImportService, res.Category)
	assert.Empty(t, res.DefaultHSN)
}

func TestIsValidGSTIN(t *testing.T) {
	assert.True(t, IsValidGSTIN("27AAPFU0939F1ZV"))
	assert.True(t, IsValidGSTIN(" 29aagcb7383j1z4 "), "case and whitespace insensitive")
	assert.False(t, IsValidGSTIN("27AAPFU0939F1AV"), "missing literal Z")
	assert.False(t, IsValidGSTIN("AAPFU0939F"))
	assert.False(t, IsValidGSTIN(""))
}
