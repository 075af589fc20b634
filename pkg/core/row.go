package core

// Column is a single (name, value) pair of a Row.
type Column struct {
	Name  string `json:"name"`
	Value Value  `json:"value"`
}

// Row is an ordered list of columns in the order the backing engine
// reported them. Names may repeat.
type Row struct {
	Columns []Column `json:"columns"`
}

// Get returns the value of the first column called name.
func (r Row) Get(name string) (Value, bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c.Value, true
		}
	}
	return Null(), false
}

// Names returns the column names in order.
func (r Row) Names() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return names
}

// Values returns the column values in order.
func (r Row) Values() []Value {
	vals := make([]Value, len(r.Columns))
	for i, c := range r.Columns {
		vals[i] = c.Value
	}
	return vals
}

// QueryResult is the outcome of a query.
type QueryResult struct {
	Rows []Row `json:"rows"`

	// RowsAffected is always 0 for queries; see Adapter.Execute for
	// statements that modify rows.
	RowsAffected uint64 `json:"rows_affected"`
}
