package utils

import "errors"

// ErrorRecordNotFound is the "no result" value for lookups by id or invoice
// number. Callers decide whether that means 404 or an empty list.
var ErrorRecordNotFound = errors.New("record not found")
