// Package ingest turns source spreadsheets into the cleaned working dataset.
// It is the shared front door for the import command, pipeline steps, and
// watch-mode re-imports.
package ingest

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/klytics/inquirykit/internal/dataset"
	"github.com/klytics/inquirykit/internal/formats/xlsx"
	"github.com/klytics/inquirykit/internal/schema"
)

// Report describes what one ingestion pass did.
type Report struct {
	Files      int `json:"files"`
	Sheets     int `json:"sheets"`
	RowsRead   int `json:"rows_read"`
	RowsKept   int `json:"rows_kept"`
	Duplicates int `json:"duplicates"`
}

// File reads one workbook into a cleaned dataset. Every non-empty sheet is
// normalized and merged; exact duplicate rows collapse, last occurrence wins.
func File(path string, log *zap.Logger) (*dataset.Dataset, *Report, error) {
	if log == nil {
		log = zap.NewNop()
	}

	wb, err := xlsx.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}

	tables := wb.Tables()
	if len(tables) == 0 {
		return nil, nil, fmt.Errorf("no data found in %s — every sheet is empty", path)
	}

	rep := &Report{Files: 1, Sheets: len(tables)}
	var merged *dataset.Dataset
	for i := range tables {
		rep.RowsRead += len(tables[i].Rows)
		res := schema.Normalize(&tables[i])
		d := dataset.FromTable(res, log)
		log.Debug("normalized sheet",
			zap.String("sheet", tables[i].Name),
			zap.Int("rows", d.Len()),
			zap.Int("matched_columns", len(res.Matched)))
		if merged == nil {
			merged = d
		} else {
			merged.Merge(d)
		}
	}

	rep.RowsKept = merged.Len()
	rep.Duplicates = rep.RowsRead - rep.RowsKept
	return merged, rep, nil
}

// Files reads multiple workbooks and merges them into one dataset.
func Files(paths []string, log *zap.Logger) (*dataset.Dataset, *Report, error) {
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no input files given")
	}

	total := &Report{}
	var merged *dataset.Dataset
	for _, path := range paths {
		d, rep, err := File(path, log)
		if err != nil {
			return nil, nil, err
		}
		total.Files++
		total.Sheets += rep.Sheets
		total.RowsRead += rep.RowsRead
		if merged == nil {
			merged = d
		} else {
			merged.Merge(d)
		}
	}

	total.RowsKept = merged.Len()
	total.Duplicates = total.RowsRead - total.RowsKept
	return merged, total, nil
}
