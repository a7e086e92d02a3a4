// Package export renders account statements as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/iho/bankledger/internal/domain"
)

// StatementSheet is the worksheet holding the records.
const StatementSheet = "Statement"

// ContentTypeXLSX is the media type of the statement workbook.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var statementHeader = []any{
	"UTR", "Date", "Type", "Mode", "Amount", "Balance Before", "Balance After", "Counterparty", "Description",
}

// WriteStatement writes an XLSX workbook with one row per entry, in the
// order given, below a summary of the account. Debits carry a negative amount.
func WriteStatement(w io.Writer, account *domain.Account, entries []*domain.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StatementSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	summary := [][]any{
		{"Account", account.AccountNumber},
		{"Balance", account.Balance.StringFixed(2)},
		{"Status", string(account.Status)},
	}
	for i, row := range summary {
		if err := setRow(f, i+1, row); err != nil {
			return err
		}
	}

	headerRow := len(summary) + 2
	if err := setRow(f, headerRow, statementHeader); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(StatementSheet, "A"+fmt.Sprint(headerRow), "I"+fmt.Sprint(headerRow), bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, e := range entries {
		row := []any{
			e.UTR,
			e.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
			string(e.Type),
			e.Mode,
			e.SignedAmount().StringFixed(2),
			e.BalanceBefore().StringFixed(2),
			e.BalanceAfter.StringFixed(2),
			e.CounterpartyAccountNumber,
			e.Description,
		}
		if err := setRow(f, headerRow+1+i, row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(StatementSheet, "A", "I", 20); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	return f.Write(w)
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}

	if err := f.SetSheetRow(StatementSheet, cell, &values); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}

	return nil
}
