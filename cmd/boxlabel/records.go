package main

import (
	"fmt"
	"os"

	"github.com/example/boxlabel/internal/export"
)

func readRecordFile(path string) (export.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return export.Record{}, fmt.Errorf("open record: %w", err)
	}
	defer f.Close()
	return export.Read(f)
}
