package schema

import (
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

var nonWordOrSpace = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// NormalizeColumnName converts a raw header into a stable, identifier-safe
// name: strip special characters, slugify to lowercase word tokens joined by
// underscores, prefix names that start with a digit, and fall back to
// "unnamed_column" when nothing survives. Uniqueness across columns is not
// guaranteed here; the (sheet, column_index) key enforces it.
func NormalizeColumnName(raw any) string {
	name := Stringify(raw)
	name = nonWordOrSpace.ReplaceAllString(name, "")
	name = strings.ReplaceAll(slug.Make(name), "-", "_")

	if name != "" && name[0] >= '0' && name[0] <= '9' {
		name = "col_" + name
	}
	if name == "" {
		name = "unnamed_column"
	}
	return name
}
