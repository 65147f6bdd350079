package tracks

import "embed"

// FS holds the built-in track documents. Pattern ids follow file name order.
//
//go:embed *.json
var FS embed.FS
