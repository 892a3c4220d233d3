package validate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/fx_deals/internal/domain"
	"github.com/Gunvolt24/fx_deals/internal/ports"
)

// JSONLResult — статистика проверки потока JSONL.
type JSONLResult struct {
	ValidCount   int
	InvalidCount int
}

// ValidateJSONLStream — читает JSONL из reader'а, каждая строка — сделка или массив сделок.
// Принятые пишет в ow, отклонённые в rw (КАНОНИЧЕСКИЙ JSON одной строкой).
// Пустые строки пропускаются; неразборчивая строка считается одной отклонённой сделкой.
func ValidateJSONLStream(ctx context.Context, validator ports.DealValidator, seen *SeenIndex, ir io.Reader, ow, rw io.Writer) (JSONLResult, error) {
	var res JSONLResult

	scanner := bufio.NewScanner(ir)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}

		batch, err := ValidateDealsFromJSON(ctx, validator, seen, lineBytes)
		if err != nil {
			// не прерываем поток — строка уходит в отклонённые
			res.InvalidCount++
			rejected := domain.RejectedDeal{ValidationMsgs: []string{fmt.Sprintf("line %d: %v", lineNo, err)}}
			if werr := writeLine(rw, rejected); werr != nil {
				return res, fmt.Errorf("write rejected line: %w", werr)
			}
			continue
		}

		if err := writeResult(batch, ow, rw); err != nil {
			return res, err
		}
		res.ValidCount += len(batch.Accepted)
		res.InvalidCount += len(batch.Rejected)
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
