package extsort

import (
	"bufio"
	"encoding/binary"
	"encoding/gob"
	"io"
)

// EncodeGob serializes an item using gob encoding. It can be used directly as
// an EncodeFunc for any gob-encodable type. Gob trades some disk footprint for
// not having to write a codec by hand.
func EncodeGob[E any](w io.Writer, item E) error {
	return gob.NewEncoder(w).Encode(&item)
}

// DecodeGob deserializes an item written by EncodeGob. It can be used directly
// as a DecodeFunc. A clean end-of-stream surfaces as io.EOF from the gob decoder.
func DecodeGob[E any](r *bufio.Reader) (E, error) {
	var v E
	err := gob.NewDecoder(r).Decode(&v)
	return v, err
}

// EncodeString serializes a string as a uvarint length prefix followed by the
// raw bytes.
func EncodeString(w io.Writer, s string) error {
	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], uint64(len(s)))
	if _, err := w.Write(scratch[:n]); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

// DecodeString deserializes a string written by EncodeString.
// It returns io.EOF at a clean item boundary and io.ErrUnexpectedEOF when the
// stream ends inside an item.
func DecodeString(r *bufio.Reader) (string, error) {
	n, err := binary.ReadUvarint(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	return string(buf), nil
}
