package sheetssql

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
)

// SchemaFromModels derives one table per struct. Every field needs ssql_header and ssql_type tags.
func SchemaFromModels(models ...interface{}) (*Schema, error) {
	schema := &Schema{Tables: make([]TableSchema, 0, len(models))}
	for _, model := range models {
		table, err := tableSchemaFromModel(model)
		if err != nil {
			return nil, err
		}
		schema.Tables = append(schema.Tables, table)
	}
	return schema, nil
}

func tableSchemaFromModel(model interface{}) (TableSchema, error) {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return TableSchema{}, fmt.Errorf("model must be a struct, got %s", t.Kind())
	}
	if t.NumField() == 0 {
		return TableSchema{}, fmt.Errorf("struct %s has no fields", t.Name())
	}

	table := TableSchema{Name: TableName(t), Columns: make([]Column, t.NumField())}
	for i := range t.NumField() {
		field := t.Field(i)
		column := Column{Name: field.Tag.Get("ssql_header"), Type: field.Tag.Get("ssql_type")}
		switch {
		case column.Name == "":
			return TableSchema{}, fmt.Errorf("field %s.%s missing 'ssql_header' tag", t.Name(), field.Name)
		case column.Type == "":
			return TableSchema{}, fmt.Errorf("field %s.%s missing 'ssql_type' tag", t.Name(), field.Name)
		}
		table.Columns[i] = column
	}
	return table, nil
}

// TableName is the snake_case name of the model type, used as the tab title
func TableName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return toSnakeCase(t.Name())
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// headerRows returns the two rows that open every table: column names, then column types
func (table TableSchema) headerRows() [][]interface{} {
	names := make([]interface{}, len(table.Columns))
	types := make([]interface{}, len(table.Columns))
	for i, col := range table.Columns {
		names[i] = col.Name
		types[i] = col.Type
	}
	return [][]interface{}{names, types}
}

// ensureSchema creates missing tabs and checks the header rows of existing ones
func (db *DB) ensureSchema() error {
	if db.schema == nil {
		return nil
	}

	titles, err := db.client.ListSheets(db.spreadsheetID)
	if err != nil {
		return fmt.Errorf("failed to get existing sheets: %w", err)
	}
	existing := make(map[string]struct{}, len(titles))
	for _, title := range titles {
		existing[title] = struct{}{}
	}

	for _, table := range db.schema.Tables {
		if _, ok := existing[table.Name]; !ok {
			if err := db.createTable(table); err != nil {
				return fmt.Errorf("failed to create table %s: %w", table.Name, err)
			}
			continue
		}
		if err := db.verifyTableSchema(table); err != nil {
			return fmt.Errorf("table %s schema mismatch: %w", table.Name, err)
		}
	}
	return nil
}

func (db *DB) verifyTableSchema(table TableSchema) error {
	found, err := db.client.GetValues(db.spreadsheetID, table.Name+"!A1:ZZ2")
	if err != nil {
		return fmt.Errorf("failed to read table headers: %w", err)
	}
	if len(found) < 2 {
		return errors.New("table missing header or type row")
	}

	names, types := found[0], found[1]
	if len(names) != len(table.Columns) {
		return fmt.Errorf("expected %d columns, found %d", len(table.Columns), len(names))
	}

	for i, col := range table.Columns {
		if name, _ := names[i].(string); name != col.Name {
			return fmt.Errorf("column %d: expected header '%s', got '%v'", i, col.Name, names[i])
		}
		if i >= len(types) {
			return fmt.Errorf("missing type for column %s", col.Name)
		}
		if typ, _ := types[i].(string); typ != col.Type {
			return fmt.Errorf("column %d (%s): expected type '%s', got '%v'", i, col.Name, col.Type, types[i])
		}
	}
	return nil
}

func (db *DB) createTable(table TableSchema) error {
	if _, err := db.client.CreateSheet(db.spreadsheetID, table.Name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := db.client.AppendRows(db.spreadsheetID, table.Name, table.headerRows()); err != nil {
		return fmt.Errorf("failed to write headers and types: %w", err)
	}
	return nil
}
