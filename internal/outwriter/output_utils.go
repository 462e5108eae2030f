package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/huangsam/branchreport/internal/contract"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string, useEmojis bool) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintln(os.Stderr, successLine(successMsg, outputFile, useEmojis))
	}
	return nil
}

// successLine formats the stderr note printed after writing to a file.
func successLine(successMsg, outputFile string, useEmojis bool) string {
	if useEmojis {
		return fmt.Sprintf("💾 %s to %s", successMsg, outputFile)
	}
	return fmt.Sprintf("%s to %s", successMsg, outputFile)
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
