// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package engine

import (
	"math"
	"strconv"
)

// Format renders v for display. Integral values have no decimal point;
// other values use the shortest digit string that parses back to v.
func Format(v float64) string {
	if v == 0 {
		// covers -0
		return "0"
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
