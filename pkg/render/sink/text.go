package sink

import (
	"strings"

	"github.com/matzehuels/trominoes/pkg/tiling"
)

const (
	textLetters   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	textForbidden = '#'
	textEmpty     = '.'
)

// RenderText draws the board one character per cell. Trominoes are
// lettered by ID, cycling A-Z then a-z; the forbidden cell is '#' and any
// uncovered cell '.'.
func RenderText(res tiling.Result) []byte {
	owners := res.Owners()
	var sb strings.Builder
	sb.Grow(res.Size * (res.Size + 1))
	for row := range res.Size {
		for col := range res.Size {
			sb.WriteByte(textRune(owners[row][col], tiling.Cell{Row: row, Col: col} == res.Forbidden))
		}
		sb.WriteByte('\n')
	}
	return []byte(sb.String())
}

func textRune(owner int, forbidden bool) byte {
	switch {
	case forbidden:
		return textForbidden
	case owner < 0:
		return textEmpty
	}
	return textLetters[owner%len(textLetters)]
}
