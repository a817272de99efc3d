// Package repository persists applications in postgres (pgx) or through GORM.
package repository

import "errors"

// ErrNotFound is returned by updates of a missing row.
var ErrNotFound = errors.New("application not found")
