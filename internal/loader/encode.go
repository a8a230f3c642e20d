package loader

import (
	"github.com/wonny/aistocks/internal/contracts"
)

// WireRecord converts a record back into the file's flat object form
func WireRecord(rec contracts.Record) map[string]interface{} {
	obj := map[string]interface{}{"Date": rec.DateString()}
	for _, field := range contracts.Fields {
		for name, v := range rec.Values[field] {
			obj[field.Prefix()+name] = v
		}
	}
	return obj
}

// WireRecords converts records for JSON encoding
func WireRecords(records []contracts.Record) []map[string]interface{} {
	out := make([]map[string]interface{}, len(records))
	for i, rec := range records {
		out[i] = WireRecord(rec)
	}
	return out
}
