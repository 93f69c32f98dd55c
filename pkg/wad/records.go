package wad

import "fmt"

// DecodeFunc decodes one fixed-size record. The slice is exactly one record long.
type DecodeFunc[T any] func(rec []byte) T

// DecodeRecords splits data into size-byte records and decodes each one.
// A trailing partial record is an error, never silently dropped.
func DecodeRecords[T any](data []byte, size int, decode DecodeFunc[T]) ([]T, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid record size %d", size)
	}
	if len(data)%size != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of record size %d", ErrCorruptData, len(data), size)
	}

	records := make([]T, len(data)/size)
	for i := range records {
		records[i] = decode(data[i*size : (i+1)*size])
	}
	return records, nil
}

// LoadRecords reads the level sub-lump named lumpName and decodes it as a
// packed sequence of size-byte records.
func LoadRecords[T any](a *Archive, level *Level, lumpName string, size int, decode DecodeFunc[T]) ([]T, error) {
	l, ok := level.Lump(lumpName)
	if !ok {
		return nil, fmt.Errorf("%w: lump %q in level %q", ErrNotFound, lumpName, level.Name)
	}

	if size > 0 && int(l.Size)%size != 0 {
		return nil, fmt.Errorf("%w: lump %q in level %q is %d bytes, record size %d",
			ErrCorruptData, lumpName, level.Name, l.Size, size)
	}

	data, err := a.ReadLump(l)
	if err != nil {
		return nil, err
	}

	records, err := DecodeRecords(data, size, decode)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", lumpName, err)
	}
	return records, nil
}
