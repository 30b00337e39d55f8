package report

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/hardref/pkg/hardref"
)

// JSON writes res as indented JSON followed by a newline.
func JSON(w io.Writer, res *hardref.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
