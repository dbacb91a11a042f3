package device

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

const (
	SCREEN_WIDTH = 16 // Default cells per row.

	SCREEN_CMD_NONE     = 0 // Character only.
	SCREEN_CMD_ERASE    = 1 // Erase the screen, then draw.
	SCREEN_CMD_EMPHASIS = 2 // Enable emphasis, then draw.
	SCREEN_CMD_PLAIN    = 3 // Clear emphasis, then draw.
)

var screenCommand = map[byte]string{
	SCREEN_CMD_ERASE:    "\x1b[2J",
	SCREEN_CMD_EMPHASIS: "\x1b[1m",
	SCREEN_CMD_PLAIN:    "\x1b[0m",
}

// Screen is a write-only character display rendered with ANSI escapes.
// Each address is one cell; the cell row is addr / Width and the column is
// addr % Width.
type Screen struct {
	Output io.Writer
	Width  uint32 // Cells per row, SCREEN_WIDTH if zero.
}

var _ Device = (*Screen)(nil)

func (scr *Screen) width() uint32 {
	if scr.Width == 0 {
		return SCREEN_WIDTH
	}
	return scr.Width
}

// Defines returns an iter of defines for the screen.
func (scr *Screen) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"SCREEN_WIDTH":        fmt.Sprintf("%v", scr.width()),
		"SCREEN_CMD_NONE":     fmt.Sprintf("%v", SCREEN_CMD_NONE),
		"SCREEN_CMD_ERASE":    fmt.Sprintf("%v", SCREEN_CMD_ERASE),
		"SCREEN_CMD_EMPHASIS": fmt.Sprintf("%v", SCREEN_CMD_EMPHASIS),
		"SCREEN_CMD_PLAIN":    fmt.Sprintf("%v", SCREEN_CMD_PLAIN),
	})
}

// draw moves the cursor to the cell for addr and prints the character.
// A zero character only moves the cursor.
func (scr *Screen) draw(addr uint32, char byte) (err error) {
	x := addr%scr.width() + 1
	y := addr/scr.width() + 1

	_, err = fmt.Fprintf(scr.Output, "\x1b[%d;%dH", y, x)
	if err != nil {
		return
	}

	if char != 0 {
		_, err = scr.Output.Write([]byte{char})
	}

	return
}

func (scr *Screen) GetByte(addr uint32) (value [1]byte, err error) {
	err = ErrUnsupportedOperation
	return
}

func (scr *Screen) GetHalfWord(addr uint32) (value [2]byte, err error) {
	err = ErrUnsupportedOperation
	return
}

func (scr *Screen) GetWord(addr uint32) (value [4]byte, err error) {
	err = ErrUnsupportedOperation
	return
}

// SetByte draws the byte as a half word.
func (scr *Screen) SetByte(addr uint32, value [1]byte) error {
	return scr.SetHalfWord(addr, HalfWordOf(uint16(value[0])))
}

// SetHalfWord draws the low byte of the half word.
func (scr *Screen) SetHalfWord(addr uint32, value [2]byte) error {
	return scr.draw(addr, byte(Uint16(value)&0xff))
}

// SetWord applies the command in the second byte, then draws the character
// in the low byte.
func (scr *Screen) SetWord(addr uint32, value [4]byte) (err error) {
	word := Uint32(value)
	command := byte(word >> 8)

	escape, ok := screenCommand[command]
	if ok {
		_, err = io.WriteString(scr.Output, escape)
		if err != nil {
			return
		}
	}

	return scr.SetHalfWord(addr, HalfWordOf(uint16(word&0xff)))
}
