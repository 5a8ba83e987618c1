package geoid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrFormat is matched by every FormatError.
var ErrFormat = errors.New("format error")

// A FormatError is returned when an ASCII grid is malformed.
type FormatError struct {
	Field string // The header field or "sample" or "sample count".
	Index int    // The zero-based index of the offending sample.
	Token string // The offending token.
	Msg   string
}

func (e *FormatError) Error() string {
	switch e.Field {
	case "sample":
		return fmt.Sprintf("sample %d: invalid value %q", e.Index, e.Token)
	default:
		return e.Field + ": " + e.Msg
	}
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// egm96Header is the header of the EGM96 15 minute grid in its original
// distribution. Only this grid is supported, so the fields are compared
// literally.
var egm96Header = []struct {
	field string
	value string
}{
	{field: "min lat", value: "-90.000000"},
	{field: "max lat", value: "90.000000"},
	{field: "min lng", value: ".000000"},
	{field: "max lng", value: "360.000000"},
	{field: "lat interval", value: ".250000"},
	{field: "lng interval", value: ".250000"},
}

// NewGridFromASCII reads the EGM96 15 minute grid in its original ASCII
// format (ww15mgh.grd) from r.
func NewGridFromASCII(r io.Reader) (*Grid, error) {
	br := bufio.NewReader(r)

	headerLine, err := br.ReadString('\n')
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, readError("header", err)
	}
	if err := parseASCIIHeader(headerLine); err != nil {
		return nil, err
	}

	info := EGM96Info
	points := make([]int32, 0, info.Len())
	scanner := bufio.NewScanner(br)
	scanner.Split(func(data []byte, atEOF bool) (int, []byte, error) {
		advance, token, err := scanASCIIWords(data, atEOF)
		if err == nil && token == nil && len(data)-advance >= bufio.MaxScanTokenSize {
			return 0, nil, &FormatError{
				Field: "sample",
				Index: len(points),
				Token: string(data[advance : advance+16]),
			}
		}
		return advance, token, err
	})
	for scanner.Scan() {
		token := scanner.Text()
		value, err := strconv.ParseInt(strings.ReplaceAll(token, ".", ""), 10, 32)
		if err != nil {
			return nil, &FormatError{
				Field: "sample",
				Index: len(points),
				Token: token,
			}
		}
		points = append(points, int32(value))
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, ErrFormat) {
			return nil, err
		}
		return nil, readError("samples", err)
	}

	if len(points) != info.Len() {
		return nil, &FormatError{
			Field: "sample count",
			Msg:   fmt.Sprintf("%d data points required but found %d", info.Len(), len(points)),
		}
	}

	// The file runs from 90 to -90, the grid from -90 to 90.
	for y1 := range info.YCount / 2 {
		y2 := info.YCount - 1 - y1
		row1 := points[y1*info.XCount : (y1+1)*info.XCount]
		row2 := points[y2*info.XCount : (y2+1)*info.XCount]
		for x := range info.XCount {
			row1[x], row2[x] = row2[x], row1[x]
		}
	}

	return NewGrid(info, points)
}

func parseASCIIHeader(line string) error {
	fields := strings.FieldsFunc(line, isASCIISpace)
	if len(fields) != len(egm96Header) {
		return &FormatError{
			Field: "header",
			Msg:   fmt.Sprintf("found %d values, expected %d", len(fields), len(egm96Header)),
		}
	}
	for i, field := range fields {
		if expected := egm96Header[i]; field != expected.value {
			return &FormatError{
				Field: expected.field,
				Token: field,
				Msg:   fmt.Sprintf("found %s, expected %s", field, expected.value),
			}
		}
	}
	return nil
}

func isASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// scanASCIIWords is like bufio.ScanWords but splits only on ASCII
// whitespace. Other bytes, including UTF-8 encoded Unicode spaces, are part of
// a token.
func scanASCIIWords(data []byte, atEOF bool) (int, []byte, error) {
	start := 0
	for start < len(data) && isASCIISpace(rune(data[start])) {
		start++
	}
	for i := start; i < len(data); i++ {
		if isASCIISpace(rune(data[i])) {
			return i + 1, data[start:i], nil
		}
	}
	if atEOF && len(data) > start {
		return len(data), data[start:], nil
	}
	return start, nil, nil
}
