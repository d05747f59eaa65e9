package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lysyi3m/lis-comb/app/amendment"
)

type RecordRepository struct {
	db *DB
}

func NewRecordRepository(db *DB) *RecordRepository {
	return &RecordRepository{db: db}
}

const recordColumns = `id, stage, bill_number, session_year, chamber, patron_name, legislator_id, member_code,
	item_number, sub_item, agency_code, agency_name, secretariat_code, spending_category_id,
	delta_gf, delta_ngf, net_amount, is_increase, is_language_only,
	description_short, description_full, primary_recipient_name, recipient_raw_text, recipient_confidence,
	source_url, source_page_hint`

// ReplacePartition swaps every stored record of a (year, bill) partition for
// records, keeping their order.
func (r *RecordRepository) ReplacePartition(ctx context.Context, year int, bill string, records []amendment.Record) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM amendment_records WHERE session_year = ? AND bill_number = ?`, year, bill); err != nil {
		return fmt.Errorf("failed to clear partition: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO amendment_records (position, `+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, record := range records {
		if record.SessionYear != year || record.BillNumber != bill {
			return fmt.Errorf("record %s belongs to %d/%s, not %d/%s", record.ID, record.SessionYear, record.BillNumber, year, bill)
		}

		_, err := stmt.ExecContext(ctx,
			i, record.ID, string(record.Stage), record.BillNumber, record.SessionYear, string(record.Chamber),
			record.PatronName, record.LegislatorID, record.MemberCode,
			record.ItemNumber, record.SubItem, record.AgencyCode, record.AgencyName, record.SecretariatCode,
			string(record.SpendingCategoryID),
			nullFloat(record.DeltaGF), nullFloat(record.DeltaNGF), record.NetAmount, record.IsIncrease, record.IsLanguageOnly,
			record.DescriptionShort, record.DescriptionFull, record.PrimaryRecipientName, record.RecipientRawText,
			nullFloat(record.RecipientConfidence),
			record.SourceURL, record.SourcePageHint)
		if err != nil {
			return fmt.Errorf("failed to insert record %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit partition: %w", err)
	}

	return nil
}

// ListRecords returns stored records ordered by year, bill and original position.
func (r *RecordRepository) ListRecords(ctx context.Context, filter RecordFilter) ([]amendment.Record, error) {
	var (
		conditions []string
		args       []any
	)

	if len(filter.Years) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(filter.Years)), ", ")
		conditions = append(conditions, "session_year IN ("+placeholders+")")
		for _, year := range filter.Years {
			args = append(args, year)
		}
	}
	if filter.Bill != "" {
		conditions = append(conditions, "bill_number = ?")
		args = append(args, filter.Bill)
	}

	query := `SELECT ` + recordColumns + ` FROM amendment_records`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY session_year, bill_number, position"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []amendment.Record{}
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

func (r *RecordRepository) GetRecordCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM amendment_records`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func scanRecord(rows *sql.Rows) (amendment.Record, error) {
	var (
		record                                 amendment.Record
		stage, chamber, category               string
		deltaGF, deltaNGF, recipientConfidence sql.NullFloat64
	)

	err := rows.Scan(
		&record.ID, &stage, &record.BillNumber, &record.SessionYear, &chamber,
		&record.PatronName, &record.LegislatorID, &record.MemberCode,
		&record.ItemNumber, &record.SubItem, &record.AgencyCode, &record.AgencyName, &record.SecretariatCode,
		&category,
		&deltaGF, &deltaNGF, &record.NetAmount, &record.IsIncrease, &record.IsLanguageOnly,
		&record.DescriptionShort, &record.DescriptionFull, &record.PrimaryRecipientName, &record.RecipientRawText,
		&recipientConfidence,
		&record.SourceURL, &record.SourcePageHint)
	if err != nil {
		return amendment.Record{}, fmt.Errorf("failed to scan record: %w", err)
	}

	record.Stage = amendment.Stage(stage)
	record.Chamber = amendment.Chamber(chamber)
	record.SpendingCategoryID = amendment.Category(category)
	record.DeltaGF = floatPtr(deltaGF)
	record.DeltaNGF = floatPtr(deltaNGF)
	record.RecipientConfidence = floatPtr(recipientConfidence)

	return record, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
