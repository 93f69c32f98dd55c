// Package wad provides reading functionality for Doom-engine WAD archives.
package wad

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	headerSize   = 12
	dirEntrySize = 16

	// NameSize is the fixed width of every lump name field.
	NameSize = 8
)

// Error taxonomy shared by everything that decodes WAD content.
var (
	ErrIO          = errors.New("wad: i/o error")
	ErrNotFound    = errors.New("wad: not found")
	ErrCorruptData = errors.New("wad: corrupt data")
)

// Header contains the WAD file header.
type Header struct {
	Identification [4]byte
	NumLumps       int32
	DirOffset      int32
}

// Lump is one directory entry.
type Lump struct {
	Name   string
	Offset int32
	Size   int32
}

// Archive represents an opened WAD archive.
type Archive struct {
	r      io.ReadSeeker
	closer io.Closer
	size   int64
	header Header
	lumps  []Lump

	levels     map[string]*Level
	levelOrder []string
}

// Open opens a WAD archive for reading.
func Open(path string) (*Archive, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w: %w", ErrIO, err)
	}

	archive, err := NewReader(file)
	if err != nil {
		file.Close()
		return nil, err
	}
	archive.closer = file
	return archive, nil
}

// NewReader reads the header and lump directory from r. The caller keeps
// ownership of r.
func NewReader(r io.ReadSeeker) (*Archive, error) {
	archive := &Archive{r: r}

	size, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("%w: sizing source: %w", ErrIO, err)
	}
	archive.size = size

	if err := archive.readHeader(); err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	if err := archive.readDirectory(); err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	archive.groupLevels()
	return archive, nil
}

// Close closes the underlying file if the archive opened it.
func (a *Archive) Close() error {
	if a.closer != nil {
		err := a.closer.Close()
		a.closer = nil
		return err
	}
	return nil
}

func (a *Archive) readHeader() error {
	if _, err := a.r.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	var buf [headerSize]byte
	if _, err := io.ReadFull(a.r, buf[:]); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	copy(a.header.Identification[:], buf[0:4])
	a.header.NumLumps = int32(binary.LittleEndian.Uint32(buf[4:]))
	a.header.DirOffset = int32(binary.LittleEndian.Uint32(buf[8:]))

	if a.header.NumLumps < 0 || a.header.DirOffset < 0 {
		return fmt.Errorf("%w: negative lump count %d or directory offset %d",
			ErrCorruptData, a.header.NumLumps, a.header.DirOffset)
	}
	return nil
}

func (a *Archive) readDirectory() error {
	// Bound by the source length before allocating the table.
	end := int64(a.header.DirOffset) + int64(a.header.NumLumps)*dirEntrySize
	if end > a.size {
		return fmt.Errorf("%w: %d entries at offset %d exceed %d-byte source: %w",
			ErrIO, a.header.NumLumps, a.header.DirOffset, a.size, io.ErrUnexpectedEOF)
	}

	if _, err := a.r.Seek(int64(a.header.DirOffset), io.SeekStart); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	table := make([]byte, int(a.header.NumLumps)*dirEntrySize)
	if _, err := io.ReadFull(a.r, table); err != nil {
		return fmt.Errorf("%w: %d entries: %w", ErrIO, a.header.NumLumps, err)
	}

	a.lumps = make([]Lump, a.header.NumLumps)
	for i := range a.lumps {
		entry := table[i*dirEntrySize:]
		a.lumps[i] = Lump{
			Offset: int32(binary.LittleEndian.Uint32(entry[0:])),
			Size:   int32(binary.LittleEndian.Uint32(entry[4:])),
			Name:   Name8(entry[8:16]),
		}
	}
	return nil
}

// Header returns the archive header.
func (a *Archive) Header() Header {
	return a.header
}

// Identification returns the 4-byte identifier, usually "IWAD" or "PWAD".
// It is informational only and never validated.
func (a *Archive) Identification() string {
	return string(a.header.Identification[:])
}

// Lumps returns the lump directory in file order.
func (a *Archive) Lumps() []Lump {
	return a.lumps
}

// Find returns the first lump named name.
func (a *Archive) Find(name string) (Lump, bool) {
	key := truncName(name)
	for _, l := range a.lumps {
		if l.Name == key {
			return l, true
		}
	}
	return Lump{}, false
}

// FindAll returns every lump named name in directory order.
func (a *Archive) FindAll(name string) []Lump {
	key := truncName(name)
	var result []Lump
	for _, l := range a.lumps {
		if l.Name == key {
			result = append(result, l)
		}
	}
	return result
}

// Contains checks if a lump exists.
func (a *Archive) Contains(name string) bool {
	_, ok := a.Find(name)
	return ok
}

// ReadLump reads the full payload of l.
func (a *Archive) ReadLump(l Lump) ([]byte, error) {
	if l.Offset < 0 || l.Size < 0 {
		return nil, fmt.Errorf("%w: lump %q has offset %d size %d", ErrCorruptData, l.Name, l.Offset, l.Size)
	}
	if int64(l.Offset)+int64(l.Size) > a.size {
		return nil, fmt.Errorf("%w: lump %q ends at %d, source is %d bytes: %w",
			ErrIO, l.Name, int64(l.Offset)+int64(l.Size), a.size, io.ErrUnexpectedEOF)
	}

	if _, err := a.r.Seek(int64(l.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: seeking lump %q: %w", ErrIO, l.Name, err)
	}

	data := make([]byte, l.Size)
	if _, err := io.ReadFull(a.r, data); err != nil {
		return nil, fmt.Errorf("%w: reading lump %q: %w", ErrIO, l.Name, err)
	}
	return data, nil
}

// ReadLumpByName reads the first lump named name.
func (a *Archive) ReadLumpByName(name string) ([]byte, error) {
	l, ok := a.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: lump %q", ErrNotFound, name)
	}
	return a.ReadLump(l)
}

// Name8 decodes a fixed 8-byte name field. The field is not guaranteed to be
// NUL terminated.
func Name8(b []byte) string {
	if len(b) > NameSize {
		b = b[:NameSize]
	}
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func truncName(name string) string {
	if len(name) > NameSize {
		return name[:NameSize]
	}
	return name
}
