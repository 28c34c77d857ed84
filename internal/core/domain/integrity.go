package domain

// IntegrityReport summarises an object store verification pass.
// Corrupt objects are reported, never raised: a single bad object must
// not block verification of the rest of the store.
type IntegrityReport struct {
	// ObjectsVerified is the number of objects that hashed back to their key.
	ObjectsVerified int `json:"objects_verified"`

	// ObjectsFailed is the number of objects whose content no longer
	// matches their key, or that could not be read.
	ObjectsFailed int `json:"objects_failed"`

	// Errors describes each failure. Empty for a clean store.
	Errors []string `json:"errors"`
}

// Clean reports whether verification found no failures.
func (r IntegrityReport) Clean() bool {
	return r.ObjectsFailed == 0 && len(r.Errors) == 0
}
