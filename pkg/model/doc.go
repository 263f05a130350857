// Package model declares the contracts between the xmlform engine and the
// data model a template binds to: a Store resolving form ids to Form handles,
// and the Form operations used while rendering (value lookup, node-set
// location, sorted violations and expected-reference bookkeeping).
//
// Implementations live in subpackages; memory keeps documents in process and
// sqlstore persists them in SQLite.
package model
