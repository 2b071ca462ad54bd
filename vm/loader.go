package vm

import (
	"bufio"
	"encoding/binary"
	"errors"
	goIO "io"
	"os"
)

// LoadImage copies a program image into memory. The image is a big-endian
// origin followed by big-endian words; it returns the origin and the number
// of words written. Words that would fall past 0xFFFF are dropped, as is a
// trailing odd byte.
func (mem *Memory) LoadImage(r goIO.Reader) (origin Word, n int, err error) {
	br := bufio.NewReader(r)

	var buf [2]byte
	if _, err = goIO.ReadFull(br, buf[:]); err != nil {
		if errors.Is(err, goIO.EOF) || errors.Is(err, goIO.ErrUnexpectedEOF) {
			err = ErrImageTooShort
		}
		return
	}
	origin = Word(binary.BigEndian.Uint16(buf[:]))

	/* the origin tells us where in memory to place the image */
	maxRead := MemorySize - int(origin)
	for n < maxRead {
		if _, err = goIO.ReadFull(br, buf[:]); err != nil {
			if errors.Is(err, goIO.EOF) || errors.Is(err, goIO.ErrUnexpectedEOF) {
				err = nil
			}
			return
		}
		mem.cells[int(origin)+n] = Word(binary.BigEndian.Uint16(buf[:]))
		n++
	}
	return
}

// LoadImageFile loads the image stored at path.
func (mem *Memory) LoadImageFile(path string) (origin Word, n int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, &ErrLoad{Path: path, Err: err}
	}
	defer file.Close()

	origin, n, err = mem.LoadImage(file)
	if err != nil {
		err = &ErrLoad{Path: path, Err: err}
	}
	return
}
