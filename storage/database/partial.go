package database

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/soundtrackapp/soundtrack/core"
)

// errNoData rejects sparse updates that would change nothing.
var errNoData = core.NewValidationError(errors.New("No data"))

// partialUpdate builds the SET clause of a sparse UPDATE statement from the
// provided fields, in order. Field names are translated to column names
// through aliases; names with no alias are used as-is. Returned values line
// up with placeholders $1..$n.
func partialUpdate(fields []core.Field, aliases map[string]string) (string, []interface{}, error) {
	if len(fields) == 0 {
		return "", nil, errNoData
	}

	setCols := make([]string, 0, len(fields))
	values := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		col := f.Name
		if alias, ok := aliases[f.Name]; ok {
			col = alias
		}
		setCols = append(setCols, fmt.Sprintf("%s = $%d", col, len(setCols)+1))
		values = append(values, f.Value)
	}
	return strings.Join(setCols, ", "), values, nil
}
