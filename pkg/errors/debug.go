package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrorDump is the flattened view of an error chain used for logging.
// Driver fields are filled for the first recognised driver error.
type ErrorDump struct {
	TopMessage string   `json:"top_message"`
	Code       Code     `json:"code,omitempty"`
	Chain      []string `json:"chain,omitempty"`

	Postgres *PGFields    `json:"postgres,omitempty"`
	Mongo    *MongoFields `json:"mongo,omitempty"`
}

type PGFields struct {
	Code       string `json:"code"`
	Message    string `json:"message,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Table      string `json:"table,omitempty"`
	Column     string `json:"column,omitempty"`
	Constraint string `json:"constraint,omitempty"`
}

type MongoFields struct {
	Code    int    `json:"code"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message,omitempty"`
}

// Fields returns the dump as flat log fields, omitting empty driver data.
func (d ErrorDump) Fields() map[string]any {
	out := map[string]any{
		"error":       d.TopMessage,
		"error_code":  d.Code,
		"error_chain": d.Chain,
	}
	if pg := d.Postgres; pg != nil {
		out["pg_code"] = pg.Code
		out["pg_message"] = pg.Message
		out["pg_detail"] = pg.Detail
		out["pg_table"] = pg.Table
		out["pg_column"] = pg.Column
		out["pg_constraint"] = pg.Constraint
	}
	if m := d.Mongo; m != nil {
		out["mongo_code"] = m.Code
		out["mongo_name"] = m.Name
		out["mongo_message"] = m.Message
	}
	return out
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

	d.Postgres = postgresFields(err)
	if d.Postgres == nil {
		d.Mongo = mongoFields(err)
	}
	return d
}

func postgresFields(err error) *PGFields {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return &PGFields{
			Code:       pgxErr.Code,
			Message:    pgxErr.Message,
			Detail:     pgxErr.Detail,
			Table:      pgxErr.TableName,
			Column:     pgxErr.ColumnName,
			Constraint: pgxErr.ConstraintName,
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &PGFields{
			Code:       string(pqErr.Code),
			Message:    pqErr.Message,
			Detail:     pqErr.Detail,
			Table:      pqErr.Table,
			Column:     pqErr.Column,
			Constraint: pqErr.Constraint,
		}
	}
	return nil
}

func mongoFields(err error) *MongoFields {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return &MongoFields{Code: int(cmdErr.Code), Name: cmdErr.Name, Message: cmdErr.Message}
	}
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) && len(writeErr.WriteErrors) > 0 {
		first := writeErr.WriteErrors[0]
		return &MongoFields{Code: first.Code, Message: first.Message}
	}
	return nil
}
