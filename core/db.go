package core

import "github.com/jmoiron/sqlx"

// DBExecutor is satisfied by both *sqlx.DB and *sqlx.Tx, so repositories can
// run inside or outside a transaction.
type DBExecutor interface {
	sqlx.ExtContext
}

// Field is a single entry of a sparse update: an external field name and its
// new value, in the order the caller supplied them.
type Field struct {
	Name  string
	Value interface{}
}
