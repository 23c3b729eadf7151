package api

import (
	"net/http"

	"github.com/go-faster/errors"
)

// maxTableNumber is the highest table code printed on the restaurant's QR
// stickers.
const maxTableNumber = 50

// errInvalidTable rejects table codes that do not match the printed QR
// format: exactly two digits, 01 through 50.
var errInvalidTable = errors.New("invalid table number")

// parseTableNumber validates the {table} path segment. QR codes encode the
// table as a zero-padded two-digit code ("01" .. "50"); anything else is a
// mistyped or forged URL.
func parseTableNumber(r *http.Request) (string, error) {
	table := r.PathValue("table")
	if len(table) != 2 {
		return "", errInvalidTable
	}
	n := 0
	for i := range len(table) {
		c := table[i]
		if c < '0' || c > '9' {
			return "", errInvalidTable
		}
		n = n*10 + int(c-'0')
	}
	if n < 1 || n > maxTableNumber {
		return "", errInvalidTable
	}
	return table, nil
}

// tableOrReject parses and validates the table path segment, answering the
// request with the localized QR-scan error message when invalid.
func tableOrReject(w http.ResponseWriter, r *http.Request) (string, bool) {
	table, err := parseTableNumber(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "Format nomor meja tidak valid")
		return "", false
	}
	return table, true
}
