package criteria

import (
	"github.com/viant/taskos/service/dao"
)

// FilterByStatus reports whether status satisfies the Status parameters.
// Parameters with other names are ignored; no Status parameter matches all.
func FilterByStatus(status string, parameters []*dao.Parameter) bool {
	for _, parameter := range parameters {
		if parameter == nil || parameter.Name != dao.StatusParameter {
			continue
		}
		switch actual := parameter.Value.(type) {
		case string:
			if status != actual {
				return false
			}
		case []string:
			if len(actual) == 0 {
				continue
			}
			matched := false
			for _, candidate := range actual {
				if status == candidate {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
	}
	return true
}
