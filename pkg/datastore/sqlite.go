package datastore

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteDatastore struct {
	db     *sql.DB
	config *Config
}

func NewSQLiteDatastore(config *Config) *SQLiteDatastore {
	db, err := sql.Open("sqlite3", config.DBName)
	if err != nil {
		panic(fmt.Errorf("failed to open database: %v", err))
	}

	// Create table if it doesn't exist.
	columnDefs := make([]string, 0, len(config.ColumnConfig))
	for name, typ := range config.ColumnConfig {
		columnDefs = append(columnDefs, fmt.Sprintf("%s %s", name, typ))
	}
	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (%s)",
		config.TableName,
		strings.Join(columnDefs, ", "),
	)
	_, err = db.Exec(query)
	if err != nil {
		panic(fmt.Errorf("failed to create table %s: %v", config.TableName, err))
	}
	return &SQLiteDatastore{
		db:     db,
		config: config,
	}
}

func (ds *SQLiteDatastore) Close() error {
	return ds.db.Close()
}

func (ds *SQLiteDatastore) Get(key string, columns []string) (map[string]interface{}, error) {
	row := ds.db.QueryRow(
		fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
			strings.Join(columns, ", "), ds.config.TableName, ds.config.PrimaryKeyColumnName),
		key,
	)

	values := make([]interface{}, len(columns))
	valuePointers := make([]interface{}, len(columns))
	for i := range values {
		valuePointers[i] = &values[i]
	}

	err := row.Scan(valuePointers...)
	if err != nil {
		if err == sql.ErrNoRows {
			// There is no row with the given key.
			return nil, nil
		}
		return nil, err
	}

	result := make(map[string]interface{})
	for i, column := range columns {
		result[column] = normalizeValue(values[i])
	}

	return result, nil
}

func (ds *SQLiteDatastore) Put(key string, values map[string]interface{}) error {
	columns := []string{ds.config.PrimaryKeyColumnName}
	placeholders := []string{"?"}
	args := []interface{}{key}
	for column, value := range values {
		if column == ds.config.PrimaryKeyColumnName {
			continue
		}
		columns = append(columns, column)
		placeholders = append(placeholders, "?")
		args = append(args, value)
	}
	query := fmt.Sprintf(
		"INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		ds.config.TableName,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
	_, err := ds.db.Exec(query, args...)
	return err
}

func (ds *SQLiteDatastore) Update(key string, values map[string]interface{}) error {
	assignments := make([]string, 0, len(values))
	args := make([]interface{}, 0, len(values)+1)
	for column, value := range values {
		assignments = append(assignments, fmt.Sprintf("%s = ?", column))
		args = append(args, value)
	}
	args = append(args, key)
	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = ?",
		ds.config.TableName,
		strings.Join(assignments, ", "),
		ds.config.PrimaryKeyColumnName,
	)
	_, err := ds.db.Exec(query, args...)
	return err
}

func (ds *SQLiteDatastore) Delete(key string) error {
	_, err := ds.db.Exec(
		fmt.Sprintf(
			"DELETE FROM %s WHERE %s = ?", ds.config.TableName, ds.config.PrimaryKeyColumnName),
		key)
	return err
}

func (ds *SQLiteDatastore) ListAll(columns []string) (map[string]map[string]interface{}, error) {
	selected := "*"
	if len(columns) > 0 {
		cols := columns
		hasPk := false
		for _, c := range cols {
			if c == ds.config.PrimaryKeyColumnName {
				hasPk = true
				break
			}
		}
		if !hasPk {
			cols = append([]string{ds.config.PrimaryKeyColumnName}, cols...)
		}
		selected = strings.Join(cols, ", ")
	}
	rows, err := ds.db.Query(fmt.Sprintf("SELECT %s FROM %s", selected, ds.config.TableName))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make(map[string]map[string]interface{})
	for rows.Next() {
		values := make([]interface{}, len(cols))
		valuePointers := make([]interface{}, len(cols))
		for i := range values {
			valuePointers[i] = &values[i]
		}

		if err := rows.Scan(valuePointers...); err != nil {
			return nil, err
		}

		m := make(map[string]interface{})
		for i, colName := range cols {
			m[colName] = normalizeValue(values[i])
		}

		key := m[ds.config.PrimaryKeyColumnName].(string)
		results[key] = m
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// sqlite hands TEXT columns back as []byte through the generic scanner
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
