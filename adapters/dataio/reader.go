// Package dataio materializes contingency tables from delimited text and
// Excel files. Three statistical layouts are supported: case form (one row
// per observation), frequency form (one row per observed combination plus a
// count column), and table form (the count array written out directly).
package dataio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"goccram/domain/contingency"
	"goccram/internal/errors"
)

// DataForm is the statistical layout of an input file.
type DataForm string

const (
	CaseForm      DataForm = "case_form"      // one row per observation, 1-based codes
	FrequencyForm DataForm = "frequency_form" // combination columns + trailing count
	TableForm     DataForm = "table_form"     // the d-dimensional count array itself
)

// LoadSpec describes how to interpret an input file.
type LoadSpec struct {
	Form        DataForm
	Shape       []int
	Variables   []contingency.Variable
	CategoryMap map[string]map[string]int // variable name -> label -> 1-based code
	Named       bool                      // first row holds variable names
	Delimiter   rune                      // 0 = comma
}

// Reader loads case/frequency/table form data from CSV or Excel files.
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewReader creates a reader that dispatches on the file extension.
func NewReader(filePath string) *Reader {
	fileType := "csv"
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xlsm":
		fileType = "xlsx"
	}
	return &Reader{filePath: filePath, fileType: fileType}
}

// Load reads the file and builds a contingency table per the spec.
func (r *Reader) Load(spec LoadSpec) (*contingency.Table, error) {
	switch spec.Form {
	case CaseForm, FrequencyForm, TableForm:
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("data form must be case_form, frequency_form, or table_form, got %q", spec.Form))
	}
	if len(spec.Shape) == 0 {
		return nil, errors.InvalidInput("no table shape declared")
	}

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("data file %s", r.filePath))
	}

	var (
		records [][]string
		err     error
	)
	switch r.fileType {
	case "xlsx":
		records, err = r.readExcel()
	default:
		records, err = r.readCSV(spec.Delimiter)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.InvalidInput("data file is empty")
	}

	varNames := variableNames(spec)
	if spec.Named {
		if varNames == nil {
			varNames = records[0]
		}
		records = records[1:]
	}

	rows, err := parseRows(records, varNames, spec.CategoryMap)
	if err != nil {
		return nil, err
	}

	switch spec.Form {
	case CaseForm:
		return buildCaseForm(rows, spec.Shape)
	case FrequencyForm:
		return buildFrequencyForm(rows, spec.Shape)
	default:
		return buildTableForm(rows, spec.Shape)
	}
}

// LoadModel is a convenience that wraps the loaded table with the spec's
// variable metadata.
func (r *Reader) LoadModel(spec LoadSpec) (*contingency.Model, error) {
	table, err := r.Load(spec)
	if err != nil {
		return nil, err
	}
	return contingency.NewModel(table, spec.Variables)
}

func (r *Reader) readCSV(delimiter rune) ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", r.filePath)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", r.filePath)
	}
	return records, nil
}

func (r *Reader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open Excel file %s", r.filePath)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheets[0])
	}
	return rows, nil
}

func variableNames(spec LoadSpec) []string {
	if spec.Variables == nil {
		return nil
	}
	names := make([]string, len(spec.Variables))
	for i, v := range spec.Variables {
		names[i] = v.Name
	}
	return names
}

// parseRows converts string records into integer codes, applying per-variable
// category label maps where declared. Column i maps through the i-th
// variable's map; a trailing count column (frequency form) is plain numeric.
func parseRows(records [][]string, varNames []string, categoryMap map[string]map[string]int) ([][]int, error) {
	rows := make([][]int, 0, len(records))
	for rowIdx, record := range records {
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		row := make([]int, len(record))
		for col, raw := range record {
			value := strings.TrimSpace(raw)
			if categoryMap != nil && col < len(varNames) {
				if varMap, ok := categoryMap[varNames[col]]; ok {
					if code, ok := varMap[value]; ok {
						row[col] = code
						continue
					}
				}
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				// data may carry float-formatted integers
				f, ferr := strconv.ParseFloat(value, 64)
				if ferr != nil {
					return nil, errors.InvalidInput(fmt.Sprintf("row %d column %d: cannot convert %q to a category code", rowIdx+1, col+1, value))
				}
				n = int(f)
			}
			row[col] = n
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// buildCaseForm counts one observation per row; codes are 1-based in the
// file and shifted to 0-based indices here.
func buildCaseForm(rows [][]int, shape []int) (*contingency.Table, error) {
	cases := make([][]int, len(rows))
	for i, row := range rows {
		if len(row) != len(shape) {
			return nil, errors.InvalidInput(fmt.Sprintf("case form row %d has %d columns, expected %d variables", i+1, len(row), len(shape)))
		}
		c := make([]int, len(row))
		for axis, code := range row {
			c[axis] = code - 1
		}
		cases[i] = c
	}
	return contingency.FromCaseForm(cases, shape)
}

// buildFrequencyForm expects n variable columns plus one trailing count.
func buildFrequencyForm(rows [][]int, shape []int) (*contingency.Table, error) {
	size := 1
	for _, card := range shape {
		size *= card
	}
	counts := make([]int, size)
	for i, row := range rows {
		if len(row) != len(shape)+1 {
			return nil, errors.InvalidInput(fmt.Sprintf("frequency form row %d has %d columns, expected %d variables plus a count", i+1, len(row), len(shape)))
		}
		flat := 0
		stride := size
		for axis := range shape {
			stride /= shape[axis]
			code := row[axis] - 1
			if code < 0 || code >= shape[axis] {
				return nil, errors.InvalidInput(fmt.Sprintf("frequency form row %d: category %d out of range on axis %d", i+1, row[axis], axis+1))
			}
			flat += code * stride
		}
		counts[flat] = row[len(shape)]
	}
	return contingency.NewTable(counts, shape)
}

// buildTableForm flattens a 2-D spreadsheet of counts into the declared
// shape row-major: the first axis indexes spreadsheet rows, the remaining
// axes are unrolled across columns.
func buildTableForm(rows [][]int, shape []int) (*contingency.Table, error) {
	size := 1
	for _, card := range shape {
		size *= card
	}
	counts := make([]int, 0, size)
	for _, row := range rows {
		counts = append(counts, row...)
	}
	if len(counts) != size {
		return nil, errors.InvalidInput(fmt.Sprintf("table form holds %d cells, declared shape needs %d", len(counts), size))
	}
	return contingency.NewTable(counts, shape)
}
