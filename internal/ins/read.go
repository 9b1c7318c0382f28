package ins

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/unicode/norm"
)

// ReadFile loads text from a file. Files ending in .gz are
// decompressed transparently. Input that is not valid UTF-8 falls back
// to the legacy single-byte codepage; the result is normalized to NFC
// so label comparisons are byte comparisons.
func ReadFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(bytes.NewReader(raw))
		if err != nil {
			return "", fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer zr.Close()
		raw, err = io.ReadAll(zr)
		if err != nil {
			return "", fmt.Errorf("decompress %s: %w", path, err)
		}
	}
	return DecodeText(raw), nil
}

// DecodeText converts raw bytes to NFC-normalized UTF-8, decoding the
// legacy Windows-1252 codepage when the bytes are not valid UTF-8.
func DecodeText(raw []byte) string {
	if !utf8.Valid(raw) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err == nil {
			raw = decoded
		}
	}
	return norm.NFC.String(string(raw))
}
