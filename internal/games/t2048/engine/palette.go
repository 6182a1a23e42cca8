package engine

import (
	"fmt"
	"math/bits"

	"github.com/vovakirdan/t2048/internal/core"
)

// DefaultPaletteSize is the number of tile colors in the stock palette,
// covering 2 through 2048.
const DefaultPaletteSize = 11

// PaletteIndex maps a tile value to a palette slot: log2(value)-1, clamped to
// [0, size). It panics on values that can never appear on a board.
func PaletteIndex(value, size int) int {
	if !isTileValue(value) {
		panic(fmt.Sprintf("engine: palette lookup for invalid tile value %d", value))
	}
	if size <= 0 {
		panic(fmt.Sprintf("engine: palette size %d", size))
	}
	return core.Clamp(bits.TrailingZeros(uint(value))-1, 0, size-1)
}
