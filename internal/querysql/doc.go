// Package querysql turns a filter into a complete, executable query for a
// configured table.
//
// A Compiler owns one Config (table, allowed columns) and produces a Query:
// the SQL text with named $placeholders, the parameter values for each
// placeholder, and whether a single row is expected. Bind rewrites the
// named placeholders into the positional form pgx expects.
//
// Values are never interpolated into SQL; every value travels as a parameter.
package querysql
