package export

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"shoplens/pipeline"
)

// WriteCSV writes the table with a header row.
func WriteCSV(w io.Writer, table Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header); err != nil {
		return errors.Wrapf(err, "failed to write header for table %s", table.Name)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return errors.Wrapf(err, "failed to write rows for table %s", table.Name)
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to <dir>/<table.Name>.csv.
func WriteCSVFile(dir string, table Table) error {
	path := filepath.Join(dir, table.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()
	return WriteCSV(f, table)
}

// WriteWorkbook writes every table as a sheet of one xlsx workbook.
func WriteWorkbook(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	for i, table := range tables {
		idx := f.NewSheet(table.Name)
		if i == 0 {
			f.SetActiveSheet(idx)
		}
		for col, h := range table.Header {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return errors.Wrapf(err, "bad header coordinate in table %s", table.Name)
			}
			if err := f.SetCellValue(table.Name, cell, h); err != nil {
				return errors.Wrapf(err, "failed to write header for sheet %s", table.Name)
			}
		}
		for r, row := range table.Rows {
			for col, v := range row {
				cell, err := excelize.CoordinatesToCellName(col+1, r+2)
				if err != nil {
					return errors.Wrapf(err, "bad cell coordinate in table %s", table.Name)
				}
				if err := f.SetCellValue(table.Name, cell, v); err != nil {
					return errors.Wrapf(err, "failed to write sheet %s", table.Name)
				}
			}
		}
	}
	// Drop the default sheet excelize creates.
	f.DeleteSheet("Sheet1")
	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}

// WriteWorkbookFile writes the workbook to the given path.
func WriteWorkbookFile(path string, tables []Table) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}
	defer f.Close()
	return WriteWorkbook(f, tables)
}

// ResultTables flattens a complete analysis run into its export tables, in a
// fixed order.
func ResultTables(results *pipeline.Results) []Table {
	return []Table{
		SessionsTable(results.Sessions),
		EventsTable(results.Events),
		TransactionsTable(results.Transactions),
		CustomersTable(results.Customers),
		CLVTable(results.CustomerCLV),
		RFMTable(results.CustomerRFM),
		AbandonmentTable(results.Abandonment),
		ProductsTable(results.Products),
		SegmentsTable(results.CustomerSegments),
	}
}

// DumpResults writes every result table as CSV files plus one combined
// workbook under dir.
func DumpResults(dir string, results *pipeline.Results) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create export dir %s", dir)
	}
	tables := ResultTables(results)
	for _, table := range tables {
		if err := WriteCSVFile(dir, table); err != nil {
			return err
		}
	}
	workbook := filepath.Join(dir, "ecommerce_analysis.xlsx")
	if err := WriteWorkbookFile(workbook, tables); err != nil {
		return err
	}
	log.WithFields(log.Fields{"dir": dir, "tables": len(tables)}).Info("Exported analysis results.")
	return nil
}
