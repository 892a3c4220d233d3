package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Gunvolt24/fx_deals/pkg/validate"
)

// CLI-приложение для офлайн-проверки файла сделок теми же правилами, что и импорт.
// Принятые сделки пишутся в stdout (JSON Lines), отклонённые — в stderr.
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	flag.Parse()

	ctx := context.Background()
	dealValidator := validate.NewDealValidator()

	format := validate.InputFormat(*formatStr)
	path := *inputPath

	// stdin вариант: считаем, что jsonl
	if path == "" {
		path = "/dev/stdin"
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
	}

	summary, err := validate.ValidateFile(ctx, dealValidator, path, format, os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, summary)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "validation done (%s)\n", summary)
}
