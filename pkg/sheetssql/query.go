package sheetssql

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/shopspring/decimal"
)

// Data starts on the third row; the first two hold column names and types
const firstDataRow = 2

var decimalType = reflect.TypeOf(decimal.Decimal{})

// binding maps one sheet column onto one struct field
type binding struct {
	column int
	field  int
	header string
}

// bindColumns pairs each header cell with the field tagged for it. Untagged columns are ignored.
func bindColumns(t reflect.Type, headers []interface{}) []binding {
	fieldByHeader := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("ssql_header"); tag != "" {
			fieldByHeader[tag] = i
		}
	}

	var bindings []binding
	for col, cell := range headers {
		header, ok := cell.(string)
		if !ok {
			continue
		}
		if field, ok := fieldByHeader[header]; ok {
			bindings = append(bindings, binding{column: col, field: field, header: header})
		}
	}
	return bindings
}

// GetTableAs reads every data row of a tab into values of T, matching columns by ssql_header tag
func GetTableAs[T any](db *DB, tableName string) ([]T, error) {
	values, err := db.client.GetValues(db.spreadsheetID, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to get table %s: %w", tableName, err)
	}
	if len(values) <= firstDataRow {
		return []T{}, nil
	}

	t := reflect.TypeFor[T]()
	bindings := bindColumns(t, values[0])

	results := make([]T, 0, len(values)-firstDataRow)
	for i, row := range values[firstDataRow:] {
		var item T
		v := reflect.ValueOf(&item).Elem()
		for _, b := range bindings {
			if b.column >= len(row) || row[b.column] == nil {
				continue
			}
			if err := setFieldValue(v.Field(b.field), row[b.column]); err != nil {
				// Sheet row numbers are 1-based
				return nil, fmt.Errorf("row %d, column %s: %w", i+firstDataRow+1, b.header, err)
			}
		}
		results = append(results, item)
	}
	return results, nil
}

// cellString normalises a cell. Formatted reads give strings; unformatted reads give float64 and bool.
func cellString(cell interface{}) (string, error) {
	switch v := cell.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("unsupported cell value of type %T", cell)
	}
}

// setFieldValue parses a cell into the field's type. Empty cells leave the zero value.
func setFieldValue(field reflect.Value, cell interface{}) error {
	if !field.CanSet() {
		return errors.New("field cannot be set")
	}

	text, err := cellString(cell)
	if err != nil {
		return err
	}

	if field.Type() == decimalType {
		d := decimal.Zero
		if text != "" {
			if d, err = decimal.NewFromString(text); err != nil {
				return fmt.Errorf("failed to parse decimal: %w", err)
			}
		}
		field.Set(reflect.ValueOf(d))
		return nil
	}

	if text == "" && field.Kind() != reflect.String {
		field.SetZero()
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(text)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to parse int: %w", err)
		}
		field.SetInt(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(text, field.Type().Bits())
		if err != nil {
			return fmt.Errorf("failed to parse float: %w", err)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return fmt.Errorf("failed to parse bool: %w", err)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}
	return nil
}

// modelRow flattens the tagged fields of a struct into a row, in field order
func modelRow(v reflect.Value) []interface{} {
	t := v.Type()
	row := make([]interface{}, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("ssql_header") == "" {
			continue
		}
		switch value := v.Field(i).Interface().(type) {
		case decimal.Decimal:
			row = append(row, value.String())
		default:
			row = append(row, value)
		}
	}
	return row
}

// InsertModel appends one struct to the tab named after its type
func InsertModel[T any](db *DB, model T) error {
	v := reflect.ValueOf(model)
	return db.InsertRow(TableName(v.Type()), modelRow(v))
}

// InsertModels appends structs in a single request. An empty slice is a no-op.
func InsertModels[T any](db *DB, models []T) error {
	if len(models) == 0 {
		return nil
	}

	rows := make([][]interface{}, len(models))
	for i, model := range models {
		rows[i] = modelRow(reflect.ValueOf(model))
	}
	return db.InsertRows(TableName(reflect.TypeFor[T]()), rows)
}
