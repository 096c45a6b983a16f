package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
	"rcmbooks/internal/port"
)

type transactionRepo struct {
	db *sqlx.DB
}

// NewTransactionRepo creates a new PostgreSQL-backed TransactionRepository.
func NewTransactionRepo(db *sqlx.DB) port.TransactionRepository {
	return &transactionRepo{db: db}
}

// txRow flattens the nested transaction sub-records into one row. The domain
// model groups supplier/self-invoice/payment/filing for callers; the table
// stores them as plain columns.
type txRow struct {
	ID             uuid.UUID          `db:"id"`
	RegistrationID uuid.UUID          `db:"registration_id"`
	SupplierType   string             `db:"supplier_registration_type"`
	SupplierGSTIN  string             `db:"supplier_gstin"`
	SupplierPAN    string             `db:"supplier_pan"`
	SupplierName   string             `db:"supplier_name"`
	SupplierCtry   string             `db:"supplier_country"`
	SupplierComp   bool               `db:"supplier_composition"`
	HSNSACCode     string             `db:"hsn_sac_code"`
	Category       string             `db:"category"`
	Description    string             `db:"description"`
	AssetClass     string             `db:"asset_class"`
	SupplyDate     time.Time          `db:"supply_date"`
	PlaceOfSupply  string             `db:"place_of_supply"`
	InvoiceNumber  string             `db:"invoice_number"`
	InvoiceDate    *time.Time         `db:"invoice_date"`
	ReturnPeriod   string             `db:"return_period"`
	Classification string             `db:"classification"`
	TaxType        string             `db:"tax_type"`
	TaxableAmount  decimal.Decimal    `db:"taxable_amount"`
	GSTRate        decimal.Decimal    `db:"gst_rate"`
	CessRate       decimal.Decimal    `db:"cess_rate"`
	ForeignAmount  decimal.NullDecimal `db:"foreign_amount"`
	ExchangeRate   decimal.NullDecimal `db:"exchange_rate"`
	ForeignCcy     string             `db:"foreign_currency"`
	CGSTAmount     decimal.Decimal    `db:"cgst_amount"`
	SGSTAmount     decimal.Decimal    `db:"sgst_amount"`
	IGSTAmount     decimal.Decimal    `db:"igst_amount"`
	CessAmount     decimal.Decimal    `db:"cess_amount"`
	TotalTax       decimal.Decimal    `db:"total_tax"`
	SIName         string             `db:"self_invoice_number"`
	SIDate         *time.Time         `db:"self_invoice_date"`
	SITaxable      decimal.Decimal    `db:"self_invoice_taxable"`
	SICGST         decimal.Decimal    `db:"self_invoice_cgst"`
	SISGST         decimal.Decimal    `db:"self_invoice_sgst"`
	SIIGST         decimal.Decimal    `db:"self_invoice_igst"`
	SICess         decimal.Decimal    `db:"self_invoice_cess"`
	SITotal        decimal.Decimal    `db:"self_invoice_total"`
	PaymentDate    *time.Time         `db:"payment_date"`
	PaymentMode    string             `db:"payment_mode"`
	ChallanNo      string             `db:"challan_no"`
	PaymentAmount  decimal.Decimal    `db:"payment_amount"`
	FilingReported bool               `db:"filing_reported"`
	FilingAt       *time.Time         `db:"filing_reported_at"`
	FilingPeriod   string             `db:"filing_period"`
	CreatedBy      uuid.UUID          `db:"created_by"`
	CreatedAt      time.Time          `db:"created_at"`
	UpdatedAt      time.Time          `db:"updated_at"`
}

func (row *txRow) toDomain() *domain.RCMTransaction {
	tx := &domain.RCMTransaction{
		ID:             row.ID,
		RegistrationID: row.RegistrationID,
		Supplier: domain.Supplier{
			RegistrationType:  domain.RegistrationType(row.SupplierType),
			GSTIN:             row.SupplierGSTIN,
			PAN:               row.SupplierPAN,
			Name:              row.SupplierName,
			Country:           row.SupplierCtry,
			CompositionScheme: row.SupplierComp,
		},
		HSNSACCode:     row.HSNSACCode,
		Category:       row.Category,
		Description:    row.Description,
		AssetClass:     domain.AssetClass(row.AssetClass),
		SupplyDate:     row.SupplyDate,
		PlaceOfSupply:  row.PlaceOfSupply,
		InvoiceNumber:  row.InvoiceNumber,
		InvoiceDate:    row.InvoiceDate,
		ReturnPeriod:   row.ReturnPeriod,
		Classification: domain.RCMCategory(row.Classification),
		TaxType:        domain.TaxType(row.TaxType),
		TaxableAmount:  row.TaxableAmount,
		GSTRate:        row.GSTRate,
		CessRate:       row.CessRate,
		ForeignCurrency: row.ForeignCcy,
		CGSTAmount:     row.CGSTAmount,
		SGSTAmount:     row.SGSTAmount,
		IGSTAmount:     row.IGSTAmount,
		CessAmount:     row.CessAmount,
		TotalTax:       row.TotalTax,
		SelfInvoice: domain.SelfInvoice{
			Number:      row.SIName,
			Date:        row.SIDate,
			TaxableAmt:  row.SITaxable,
			CGSTAmount:  row.SICGST,
			SGSTAmount:  row.SISGST,
			IGSTAmount:  row.SIIGST,
			CessAmount:  row.SICess,
			TotalAmount: row.SITotal,
		},
		Payment: domain.Payment{
			Date:      row.PaymentDate,
			Mode:      domain.PaymentMode(row.PaymentMode),
			ChallanNo: row.ChallanNo,
			Amount:    row.PaymentAmount,
		},
		Filing: domain.Filing{
			Reported:   row.FilingReported,
			ReportedAt: row.FilingAt,
			Period:     row.FilingPeriod,
		},
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.ForeignAmount.Valid {
		v := row.ForeignAmount.Decimal
		tx.ForeignAmount = &v
	}
	if row.ExchangeRate.Valid {
		v := row.ExchangeRate.Decimal
		tx.ExchangeRate = &v
	}
	return tx
}

func nullDec(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *p, Valid: true}
}

const txColumns = `id, registration_id,
	supplier_registration_type, supplier_gstin, supplier_pan, supplier_name, supplier_country, supplier_composition,
	hsn_sac_code, category, description, asset_class, supply_date, place_of_supply,
	invoice_number, invoice_date, return_period, classification, tax_type,
	taxable_amount, gst_rate, cess_rate, foreign_amount, exchange_rate, foreign_currency,
	cgst_amount, sgst_amount, igst_amount, cess_amount, total_tax,
	self_invoice_number, self_invoice_date, self_invoice_taxable,
	self_invoice_cgst, self_invoice_sgst, self_invoice_igst, self_invoice_cess, self_invoice_total,
	payment_date, payment_mode, challan_no, payment_amount,
	filing_reported, filing_reported_at, filing_period,
	created_by, created_at, updated_at`

func (r *transactionRepo) Create(ctx context.Context, tx *domain.RCMTransaction) error {
	tx.ID = uuid.New()
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	query := `INSERT INTO rcm_transactions (` + txColumns + `) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19,
		$20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36,
		$37, $38, $39, $40, $41, $42, $43, $44, $45, $46, $47, $48)`
	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.RegistrationID,
		tx.Supplier.RegistrationType, tx.Supplier.GSTIN, tx.Supplier.PAN, tx.Supplier.Name,
		tx.Supplier.Country, tx.Supplier.CompositionScheme,
		tx.HSNSACCode, tx.Category, tx.Description, tx.AssetClass, tx.SupplyDate, tx.PlaceOfSupply,
		tx.InvoiceNumber, tx.InvoiceDate, tx.ReturnPeriod, tx.Classification, tx.TaxType,
		tx.TaxableAmount, tx.GSTRate, tx.CessRate, nullDec(tx.ForeignAmount), nullDec(tx.ExchangeRate), tx.ForeignCurrency,
		tx.CGSTAmount, tx.SGSTAmount, tx.IGSTAmount, tx.CessAmount, tx.TotalTax,
		tx.SelfInvoice.Number, tx.SelfInvoice.Date, tx.SelfInvoice.TaxableAmt,
		tx.SelfInvoice.CGSTAmount, tx.SelfInvoice.SGSTAmount, tx.SelfInvoice.IGSTAmount,
		tx.SelfInvoice.CessAmount, tx.SelfInvoice.TotalAmount,
		tx.Payment.Date, tx.Payment.Mode, tx.Payment.ChallanNo, tx.Payment.Amount,
		tx.Filing.Reported, tx.Filing.ReportedAt, tx.Filing.Period,
		tx.CreatedBy, tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("transactionRepo.Create: %w", err)
	}
	return nil
}

func (r *transactionRepo) GetByID(ctx context.Context, registrationID, txID uuid.UUID) (*domain.RCMTransaction, error) {
	var row txRow
	err := r.db.GetContext(ctx, &row,
		"SELECT "+txColumns+" FROM rcm_transactions WHERE id = $1 AND registration_id = $2",
		txID, registrationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("transactionRepo.GetByID: %w", err)
	}
	return row.toDomain(), nil
}

func (r *transactionRepo) List(ctx context.Context, registrationID uuid.UUID, filter port.TransactionFilter, offset, limit int) ([]domain.RCMTransaction, int, error) {
	where := []string{"registration_id = $1"}
	args := []any{registrationID}
	next := 2

	add := func(cond string, val any) {
		where = append(where, fmt.Sprintf(cond, next))
		args = append(args, val)
		next++
	}
	if filter.ReturnPeriod != "" {
		add("return_period = $%d", filter.ReturnPeriod)
	}
	if filter.Classification != "" {
		add("classification = $%d", filter.Classification)
	}
	if filter.SupplierGSTIN != "" {
		add("supplier_gstin = $%d", filter.SupplierGSTIN)
	}
	if filter.PaymentStatus == domain.PaymentPaid {
		where = append(where, "payment_date IS NOT NULL")
	} else if filter.PaymentStatus == domain.PaymentPending {
		where = append(where, "payment_date IS NULL")
	}
	if !filter.From.IsZero() {
		add("supply_date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("supply_date <= $%d", filter.To)
	}
	clause := strings.Join(where, " AND ")

	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM rcm_transactions WHERE "+clause, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("transactionRepo.List count: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM rcm_transactions WHERE %s ORDER BY supply_date DESC, created_at DESC LIMIT $%d OFFSET $%d",
		txColumns, clause, next, next+1)
	args = append(args, limit, offset)

	var rows []txRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("transactionRepo.List: %w", err)
	}
	out := make([]domain.RCMTransaction, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, total, nil
}

func (r *transactionRepo) ListByPeriod(ctx context.Context, registrationID uuid.UUID, period string) ([]domain.RCMTransaction, error) {
	var rows []txRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT "+txColumns+" FROM rcm_transactions WHERE registration_id = $1 AND return_period = $2 ORDER BY supply_date, created_at",
		registrationID, period)
	if err != nil {
		return nil, fmt.Errorf("transactionRepo.ListByPeriod: %w", err)
	}
	out := make([]domain.RCMTransaction, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, nil
}

func (r *transactionRepo) ListUnpaidDueBefore(ctx context.Context, registrationID uuid.UUID, before time.Time) ([]domain.RCMTransaction, error) {
	var rows []txRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT `+txColumns+` FROM rcm_transactions
		 WHERE registration_id = $1 AND classification <> 'none'
		   AND payment_date IS NULL AND supply_date < $2
		 ORDER BY supply_date`,
		registrationID, before)
	if err != nil {
		return nil, fmt.Errorf("transactionRepo.ListUnpaidDueBefore: %w", err)
	}
	out := make([]domain.RCMTransaction, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].toDomain())
	}
	return out, nil
}

func (r *transactionRepo) Update(ctx context.Context, tx *domain.RCMTransaction) error {
	tx.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE rcm_transactions SET
			category = $1, description = $2, asset_class = $3, classification = $4, tax_type = $5,
			taxable_amount = $6, gst_rate = $7, cess_rate = $8,
			cgst_amount = $9, sgst_amount = $10, igst_amount = $11, cess_amount = $12, total_tax = $13,
			self_invoice_number = $14, self_invoice_date = $15, self_invoice_taxable = $16,
			self_invoice_cgst = $17, self_invoice_sgst = $18, self_invoice_igst = $19,
			self_invoice_cess = $20, self_invoice_total = $21,
			filing_reported = $22, filing_reported_at = $23, filing_period = $24,
			updated_at = $25
		 WHERE id = $26 AND registration_id = $27`,
		tx.Category, tx.Description, tx.AssetClass, tx.Classification, tx.TaxType,
		tx.TaxableAmount, tx.GSTRate, tx.CessRate,
		tx.CGSTAmount, tx.SGSTAmount, tx.IGSTAmount, tx.CessAmount, tx.TotalTax,
		tx.SelfInvoice.Number, tx.SelfInvoice.Date, tx.SelfInvoice.TaxableAmt,
		tx.SelfInvoice.CGSTAmount, tx.SelfInvoice.SGSTAmount, tx.SelfInvoice.IGSTAmount,
		tx.SelfInvoice.CessAmount, tx.SelfInvoice.TotalAmount,
		tx.Filing.Reported, tx.Filing.ReportedAt, tx.Filing.Period,
		tx.UpdatedAt, tx.ID, tx.RegistrationID)
	if err != nil {
		return fmt.Errorf("transactionRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *transactionRepo) AttachPayment(ctx context.Context, registrationID, txID uuid.UUID, payment domain.Payment) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE rcm_transactions SET payment_date = $1, payment_mode = $2, challan_no = $3,
			payment_amount = $4, updated_at = NOW()
		 WHERE id = $5 AND registration_id = $6`,
		payment.Date, payment.Mode, payment.ChallanNo, payment.Amount, txID, registrationID)
	if err != nil {
		return fmt.Errorf("transactionRepo.AttachPayment: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// NextInvoiceSequence hands out monotonically increasing self-invoice
// sequence numbers per registration and fiscal year.
func (r *transactionRepo) NextInvoiceSequence(ctx context.Context, registrationID uuid.UUID, fiscalYear string) (int, error) {
	var seq int
	err := r.db.GetContext(ctx, &seq,
		`INSERT INTO self_invoice_sequences (registration_id, fiscal_year, last_seq)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (registration_id, fiscal_year)
		 DO UPDATE SET last_seq = self_invoice_sequences.last_seq + 1
		 RETURNING last_seq`,
		registrationID, fiscalYear)
	if err != nil {
		return 0, fmt.Errorf("transactionRepo.NextInvoiceSequence: %w", err)
	}
	return seq, nil
}

func (r *transactionRepo) Delete(ctx context.Context, registrationID, txID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM rcm_transactions WHERE id = $1 AND registration_id = $2", txID, registrationID)
	if err != nil {
		return fmt.Errorf("transactionRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
