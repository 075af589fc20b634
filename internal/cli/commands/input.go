package commands

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/keelsql/pkg/core"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readStatement returns the SQL to run: positional args win, then the
// --input file, then piped stdin. A terminal on stdin with nothing else
// given is an error.
func readStatement(cmd *cobra.Command, args []string, inputFile string) (string, error) {
	var sqlText string
	switch {
	case len(args) > 0:
		sqlText = strings.Join(args, " ")
	case inputFile != "":
		content, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		sqlText = string(content)
	default:
		in := cmd.InOrStdin()
		if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return "", fmt.Errorf("no SQL given (pass it as an argument, with --input, or on stdin; use 'keelsql shell' for interactive mode)")
		}
		content, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlText = string(content)
	}

	sqlText = strings.TrimSuffix(strings.TrimSpace(sqlText), ";")
	if sqlText == "" {
		return "", fmt.Errorf("empty SQL statement")
	}
	return sqlText, nil
}

// parseParams turns --param values of the form kind:value into
// positional parameters, e.g. int64:42, text:hello, null.
func parseParams(raw []string) ([]core.Value, error) {
	out := make([]core.Value, 0, len(raw))
	for i, p := range raw {
		v, err := parseParam(p)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i+1, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseParam(p string) (core.Value, error) {
	kindName, text, _ := strings.Cut(p, ":")
	kind, ok := core.ParseKind(kindName)
	if !ok {
		return core.Null(), fmt.Errorf("unknown kind %q (want kind:value, e.g. int64:42)", kindName)
	}

	switch kind {
	case core.KindNull:
		return core.Null(), nil
	case core.KindBoolean:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return core.Null(), fmt.Errorf("invalid boolean %q", text)
		}
		return core.Bool(b), nil
	case core.KindInt32:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return core.Null(), fmt.Errorf("invalid int32 %q", text)
		}
		return core.Int32(int32(n)), nil
	case core.KindInt64, core.KindTimestamp:
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return core.Null(), fmt.Errorf("invalid %s %q", kind, text)
		}
		if kind == core.KindTimestamp {
			return core.Timestamp(n), nil
		}
		return core.Int64(n), nil
	case core.KindFloat32:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return core.Null(), fmt.Errorf("invalid float32 %q", text)
		}
		return core.Float32(float32(f)), nil
	case core.KindFloat64:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return core.Null(), fmt.Errorf("invalid float64 %q", text)
		}
		return core.Float64(f), nil
	case core.KindText:
		return core.Text(text), nil
	case core.KindBytes:
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return core.Null(), fmt.Errorf("invalid base64 bytes %q", text)
		}
		return core.Bytes(b), nil
	case core.KindUUID:
		id, err := uuid.Parse(text)
		if err != nil {
			return core.Null(), fmt.Errorf("invalid uuid %q", text)
		}
		return core.UUID(id.String()), nil
	default:
		return core.Null(), fmt.Errorf("unsupported kind %s", kind)
	}
}
