package dscache

// Record is a single dataset row, column name to value.
type Record = map[string]any

// Dataset is an ordered record sequence plus opaque metadata. A dataset may
// carry a cached Fingerprint of its content: absent until computed from
// content or stamped by a cached operation, cleared by uncached mutation.
//
// Dataset is not safe for concurrent mutation; the cached operations never
// mutate their input.
type Dataset struct {
	records []Record
	meta    map[string]any
	fp      Fingerprint
}

// NewDataset wraps records in a Dataset. The slice is used as-is, not copied.
func NewDataset(records []Record) *Dataset {
	return &Dataset{records: records}
}

// NewDatasetWithMetadata wraps records together with opaque metadata.
func NewDatasetWithMetadata(records []Record, meta map[string]any) *Dataset {
	return &Dataset{records: records, meta: meta}
}

// Len reports the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// Records returns the underlying record slice. Callers must treat it as
// read-only; use Append or the transformation operations to derive new data.
func (d *Dataset) Records() []Record { return d.records }

// Record returns the record at index i.
func (d *Dataset) Record(i int) Record { return d.records[i] }

// Metadata returns the dataset's metadata map (may be nil).
func (d *Dataset) Metadata() map[string]any { return d.meta }

// Fingerprint returns the dataset's content fingerprint, deriving and caching
// it from the current records on first use.
func (d *Dataset) Fingerprint() Fingerprint {
	if d.fp == "" {
		d.fp = FromDataset(d)
	}
	return d.fp
}

// HasFingerprint reports whether a fingerprint has been computed or stamped.
func (d *Dataset) HasFingerprint() bool { return d.fp != "" }

// SetFingerprint stamps an explicit fingerprint onto the dataset, replacing
// whatever was cached. An empty value clears it.
func (d *Dataset) SetFingerprint(fp Fingerprint) { d.fp = fp }

// Append returns a new dataset with rec added. The result carries no
// fingerprint: appending is an uncached mutation.
func (d *Dataset) Append(rec Record) *Dataset {
	out := make([]Record, 0, len(d.records)+1)
	out = append(out, d.records...)
	out = append(out, rec)
	return &Dataset{records: out, meta: cloneMeta(d.meta)}
}

// withRecords derives a dataset sharing this one's metadata.
func (d *Dataset) withRecords(records []Record, fp Fingerprint) *Dataset {
	return &Dataset{records: records, meta: cloneMeta(d.meta), fp: fp}
}

func cloneMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
