package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrorDump flattens an error chain for structured logs. Driver fields are
// filled from whichever database error sits in the chain.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	Store      string `json:"store,omitempty"`
	StoreCode  string `json:"store_code,omitempty"`
	Constraint string `json:"constraint,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{TopMessage: err.Error()}
	if te := As(err); te != nil {
		d.Code = te.Code()
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var (
		pgxErr  *pgconn.PgError
		pqErr   *pq.Error
		liteErr sqlite3.Error
	)
	switch {
	case errors.As(err, &pgxErr):
		d.Store, d.StoreCode = "postgres", pgxErr.Code
		d.Constraint, d.Table, d.Column, d.Detail = pgxErr.ConstraintName, pgxErr.TableName, pgxErr.ColumnName, pgxErr.Detail
	case errors.As(err, &pqErr):
		d.Store, d.StoreCode = "postgres", string(pqErr.Code)
		d.Constraint, d.Table, d.Column, d.Detail = pqErr.Constraint, pqErr.Table, pqErr.Column, pqErr.Detail
	case errors.As(err, &liteErr):
		d.Store, d.StoreCode = "sqlite", liteErr.ExtendedCode.Error()
		d.Detail = liteErr.Error()
	}
	return d
}

// LogFields returns the dump as logger fields, omitting empty driver data.
func (d ErrorDump) LogFields() map[string]any {
	fields := map[string]any{
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if d.Store == "" {
		return fields
	}
	fields["store"] = d.Store
	fields["store_code"] = d.StoreCode
	for k, v := range map[string]string{"constraint": d.Constraint, "table": d.Table, "column": d.Column, "detail": d.Detail} {
		if v != "" {
			fields["store_"+k] = v
		}
	}
	return fields
}
