package catalog

// systemNamespaces are never explored. Matching is exact; pg_toast_temp_1
// and friends are not covered.
var systemNamespaces = [...]string{
	"pg_catalog",
	"pg_toast",
	"information_schema",
	"pg_toast_temp",
}

// IsSystemNamespace reports whether name is an internal namespace that must
// never appear in an exploration result.
func IsSystemNamespace(name string) bool {
	for _, s := range systemNamespaces {
		if name == s {
			return true
		}
	}
	return false
}

// SystemNamespaces returns a copy of the exclusion set.
func SystemNamespaces() []string {
	out := make([]string, len(systemNamespaces))
	copy(out, systemNamespaces[:])
	return out
}
