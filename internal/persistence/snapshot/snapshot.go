// Package snapshot encodes save blobs: a zstd stream holding one JSON header
// line followed by the gob encoded run snapshot.
package snapshot

import (
	"bufio"
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"magictrail.dev/internal/sim/trail"
)

const FormatVersion = 1

var ErrFormat = errors.New("unsupported save format")

// Header is readable without decoding the body, so listings stay cheap.
type Header struct {
	Version  int       `json:"version"`
	Player   string    `json:"player"`
	Mode     string    `json:"mode"`
	Day      int       `json:"day"`
	Month    int       `json:"month"`
	Year     int       `json:"year"`
	Traveled int       `json:"traveled"`
	SavedAt  time.Time `json:"saved_at"`
}

func HeaderFor(s trail.Snapshot, savedAt time.Time) Header {
	return Header{
		Version:  FormatVersion,
		Player:   s.Player,
		Mode:     s.Mode,
		Day:      s.Date.Day,
		Month:    s.Date.Month,
		Year:     s.Date.Year,
		Traveled: s.Travel.DistanceTraveled,
		SavedAt:  savedAt.UTC(),
	}
}

func Write(w io.Writer, s trail.Snapshot, savedAt time.Time) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(enc)

	hb, _ := json.Marshal(HeaderFor(s, savedAt))
	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}
	if err := gob.NewEncoder(bw).Encode(&s); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

func Read(r io.Reader) (Header, trail.Snapshot, error) {
	var (
		h    Header
		snap trail.Snapshot
	)
	dec, err := zstd.NewReader(r)
	if err != nil {
		return h, snap, err
	}
	defer dec.Close()

	br := bufio.NewReader(dec)
	h, err = readHeader(br)
	if err != nil {
		return h, snap, err
	}
	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return h, snap, fmt.Errorf("gob decode: %w", err)
	}
	return h, snap, nil
}

func readHeader(br *bufio.Reader) (Header, error) {
	var h Header
	line, err := br.ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	if h.Version != FormatVersion {
		return h, fmt.Errorf("%w: %d", ErrFormat, h.Version)
	}
	return h, nil
}

func Encode(s trail.Snapshot, savedAt time.Time) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, s, savedAt); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Decode(blob []byte) (Header, trail.Snapshot, error) {
	return Read(bytes.NewReader(blob))
}

// PeekHeader decodes only the header line of a blob.
func PeekHeader(blob []byte) (Header, error) {
	dec, err := zstd.NewReader(bytes.NewReader(blob))
	if err != nil {
		return Header{}, err
	}
	defer dec.Close()
	return readHeader(bufio.NewReader(dec))
}

func WriteFile(path string, s trail.Snapshot, savedAt time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := Write(f, s, savedAt); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func ReadFile(path string) (Header, trail.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Header{}, trail.Snapshot{}, err
	}
	defer f.Close()
	return Read(f)
}
