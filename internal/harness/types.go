package harness

// TraceEvent records one executed step.
type TraceEvent struct {
	Seq    int64    `json:"seq"`
	Op     string   `json:"op"`
	Args   []string `json:"args,omitempty"`
	Result string   `json:"result"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every executed step in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// LinkMode is what the surface reported ("static" or "dynamic").
	LinkMode string `json:"link_mode"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends an executed step.
func (r *Result) AddTrace(op string, args []string, result string, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Seq:    seq,
		Op:     op,
		Args:   args,
		Result: result,
	})
}

// toCanonical converts the event for ratio.MarshalCanonical.
func (e TraceEvent) toCanonical() map[string]any {
	m := map[string]any{
		"seq":    e.Seq,
		"op":     e.Op,
		"result": e.Result,
	}
	if len(e.Args) > 0 {
		m["args"] = e.Args
	}
	return m
}
