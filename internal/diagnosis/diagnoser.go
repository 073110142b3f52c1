package diagnosis

import "strconv"

// #region result
// Result is a localized diagnosis.
type Result struct {
	ClassID       int
	ConfidencePct float64
	Digest        string
	Language      string // resolved language
	Disease       string
	Severity      string
	Symptoms      []string
	Treatment     Treatment
	Prevention    string
}

// RoundedConfidence returns the confidence at wire precision (1 decimal).
// Rounding works on the exact decimal expansion with ties to even, so 88.25
// gives 88.2 and 85.35 (stored just below) gives 85.3.
func (r Result) RoundedConfidence() float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(r.ConfidencePct, 'f', 1, 64), 64)
	if err != nil {
		return r.ConfidencePct
	}
	return v
}

// #endregion result

// #region diagnoser
// Diagnoser classifies images against an injected table.
type Diagnoser struct {
	table *Table
}

// NewDiagnoser creates a diagnoser over table.
func NewDiagnoser(table *Table) *Diagnoser {
	return &Diagnoser{table: table}
}

// Table returns the lookup table in use.
func (d *Diagnoser) Table() *Table { return d.table }

// Diagnose decodes payload and diagnoses it. The only error is ErrDecoding.
func (d *Diagnoser) Diagnose(payload, lang string) (Result, error) {
	img, err := DecodeImage(payload)
	if err != nil {
		return Result{}, err
	}
	return d.DiagnoseBytes(img, lang), nil
}

// DiagnoseBytes diagnoses already-decoded image bytes.
func (d *Diagnoser) DiagnoseBytes(image []byte, lang string) Result {
	c := Classify(image, d.table.Classes())
	resolved := d.table.Resolve(lang)
	e := d.table.Lookup(c.ClassID, resolved)

	symptoms := make([]string, len(e.Symptoms))
	copy(symptoms, e.Symptoms)

	return Result{
		ClassID:       c.ClassID,
		ConfidencePct: c.ConfidencePct,
		Digest:        c.Digest,
		Language:      resolved,
		Disease:       e.Disease,
		Severity:      e.Severity,
		Symptoms:      symptoms,
		Treatment:     e.Treatment,
		Prevention:    e.Prevention,
	}
}

// #endregion diagnoser
