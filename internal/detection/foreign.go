package detection

import "strings"

// ForeignSupplierEntry seeds the static lookup. NameContains matches against
// the normalized supplier name; Country matches any supplier billed from that
// country when no name entry hits.
type ForeignSupplierEntry struct {
	NameContains string
	Country      string
	Info         ForeignSupplierInfo
}

// StaticForeignLookup resolves known cross-border service vendors from an
// in-memory table. Name entries win over country fallbacks, and within the
// name entries the first match wins, so more specific entries go first.
type StaticForeignLookup struct {
	entries []ForeignSupplierEntry
}

// NewStaticForeignLookup builds a lookup over the given entries.
func NewStaticForeignLookup(entries []ForeignSupplierEntry) *StaticForeignLookup {
	return &StaticForeignLookup{entries: entries}
}

func (l *StaticForeignLookup) Lookup(name, country string) (*ForeignSupplierInfo, error) {
	n := normalizeName(name)
	if n != "" {
		for i := range l.entries {
			e := &l.entries[i]
			if e.NameContains != "" && strings.Contains(n, normalizeName(e.NameContains)) {
				info := e.Info
				return &info, nil
			}
		}
	}
	c := normalizeName(country)
	if c != "" {
		for i := range l.entries {
			e := &l.entries[i]
			if e.NameContains == "" && normalizeName(e.Country) == c {
				info := e.Info
				return &info, nil
			}
		}
	}
	return nil, nil
}

func normalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// KnownForeignSuppliers is the default table: the cross-border vendors that
// show up most often on import-of-service self-invoices, with the SAC their
// invoices customarily carry. SupplierCode keys the vendor in exports.
func KnownForeignSuppliers() []ForeignSupplierEntry {
	return []ForeignSupplierEntry{
		{NameContains: "amazon web services", Info: ForeignSupplierInfo{DefaultHSN: "998315", SupplierCode: "AWS"}},
		{NameContains: "google cloud", Info: ForeignSupplierInfo{DefaultHSN: "998315", SupplierCode: "GCP"}},
		{NameContains: "microsoft azure", Info: ForeignSupplierInfo{DefaultHSN: "998315", SupplierCode: "AZURE"}},
		{NameContains: "digitalocean", Info: ForeignSupplierInfo{DefaultHSN: "998315", SupplierCode: "DO"}},
		{NameContains: "google", Info: ForeignSupplierInfo{DefaultHSN: "998365", SupplierCode: "GOOG-ADS"}},
		{NameContains: "meta platforms", Info: ForeignSupplierInfo{DefaultHSN: "998365", SupplierCode: "META"}},
		{NameContains: "facebook", Info: ForeignSupplierInfo{DefaultHSN: "998365", SupplierCode: "META"}},
		{NameContains: "linkedin", Info: ForeignSupplierInfo{DefaultHSN: "998365", SupplierCode: "LNKD"}},
		{NameContains: "adobe", Info: ForeignSupplierInfo{DefaultHSN: "997331", SupplierCode: "ADBE"}},
		{NameContains: "atlassian", Info: ForeignSupplierInfo{DefaultHSN: "997331", SupplierCode: "ATLN"}},
		{NameContains: "github", Info: ForeignSupplierInfo{DefaultHSN: "997331", SupplierCode: "GH"}},
	}
}
