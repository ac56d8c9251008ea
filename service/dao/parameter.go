package dao

// StatusParameter is the parameter name List filters on.
const StatusParameter = "Status"

// Parameter narrows a List call.
type Parameter struct {
	Name  string
	Value interface{}
}

// NewParameter creates a parameter matching one value or any of several values.
func NewParameter(name string, values ...string) *Parameter {
	if len(values) == 1 {
		return &Parameter{Name: name, Value: values[0]}
	}
	return &Parameter{Name: name, Value: values}
}
