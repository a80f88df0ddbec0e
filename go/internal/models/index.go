package models

// Record is anything carrying a collection-unique identifier.
type Record interface {
	RecordID() string
}

// IndexByID maps each record's identifier to the record. When two records
// share an identifier the later one wins.
func IndexByID[T Record](records []T) map[string]T {
	indexed := make(map[string]T, len(records))
	for _, r := range records {
		indexed[r.RecordID()] = r
	}
	return indexed
}
