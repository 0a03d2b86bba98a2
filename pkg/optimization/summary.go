// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of a single break-even directive.
type Summary struct {
	Scenario        string   `json:"scenario"`
	Field           string   `json:"field"`
	Target          string   `json:"target"`
	Original        float64  `json:"original"`
	Value           float64  `json:"value"`
	NPV             float64  `json:"npv"`
	PaybackMonth    int      `json:"paybackMonth,omitempty"`
	Iterations      int      `json:"iterations"`
	Converged       bool     `json:"converged"`
	Notes           []string `json:"notes,omitempty"`
	OriginalDisplay string   `json:"originalDisplay,omitempty"`
	ValueDisplay    string   `json:"valueDisplay,omitempty"`
}
