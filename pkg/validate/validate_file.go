package validate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Gunvolt24/fx_deals/internal/ports"
)

// InputFormat допустимые значения.
type InputFormat string

const (
	FormatAuto  InputFormat = "auto"
	FormatJSON  InputFormat = "json"
	FormatJSONL InputFormat = "jsonl"
)

// ValidateFile — проверяет файл сделок как JSON или JSONL.
// Принятые сделки пишутся в ow, отклонённые в rw. Повтор dealId внутри файла разрешается как в пакетном импорте.
func ValidateFile(ctx context.Context, validator ports.DealValidator, filePath string, format InputFormat, ow, rw io.Writer) (string, error) {
	resSummary := ""

	// auto по расширению
	if format == FormatAuto {
		switch strings.ToLower(filepath.Ext(filePath)) {
		case ".jsonl":
			format = FormatJSONL
		default:
			// по умолчанию считаем JSON
			format = FormatJSON
		}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return resSummary, fmt.Errorf("open file: %w", err)
	}
	defer file.Close()

	seen := NewSeenIndex()

	switch format {
	case FormatJSON:
		raw, err := io.ReadAll(file)
		if err != nil {
			return resSummary, fmt.Errorf("read file: %w", err)
		}
		batch, err := ValidateDealsFromJSON(ctx, validator, seen, raw)
		if err != nil {
			return "0 valid / 1 invalid", err
		}
		if err := writeResult(batch, ow, rw); err != nil {
			return resSummary, err
		}
		return summary(len(batch.Accepted), len(batch.Rejected)), nil

	case FormatJSONL:
		result, err := ValidateJSONLStream(ctx, validator, seen, file, ow, rw)
		if err != nil {
			return resSummary, err
		}
		return summary(result.ValidCount, result.InvalidCount), nil

	default:
		return resSummary, fmt.Errorf("unsupported format: %s", format)
	}
}

func summary(valid, invalid int) string {
	return fmt.Sprintf("%d valid / %d invalid", valid, invalid)
}
