// Package repository contains the pgx-backed data access layer. Each
// repository receives the shared connection pool through its constructor;
// there is no ambient global handle.
package repository

import "strconv"

// formatInt renders a positional parameter index for dynamic SQL.
func formatInt(n int) string {
	return strconv.Itoa(n)
}
