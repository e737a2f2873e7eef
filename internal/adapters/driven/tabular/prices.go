package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
	"github.com/pricelab/cpix-cli/internal/logger"
)

// relativeScale converts price-relative ratios to index points. Matrix cells
// hold ratios to the base period (1.0 means unchanged); the series stores
// index-scale values (100.0 means unchanged).
const relativeScale = 100.0

// Ensure PriceMatrix implements the interface.
var _ driven.PriceSource = (*PriceMatrix)(nil)

// PriceMatrix reads the wide price-relative table: one row per item, one
// column per period. All observations land in the default state and sector
// stream; per-state matrices are a dataset store concern.
type PriceMatrix struct {
	path string
}

// NewPriceMatrix creates a price source for the given CSV file.
func NewPriceMatrix(path string) *PriceMatrix {
	return &PriceMatrix{path: path}
}

// LoadPrices reads the matrix into a PriceSeries. Header columns that parse
// as periods become observation columns; other columns besides Item_Code and
// Item_Name are ignored. Empty cells mean the item was not priced that
// period. Unparseable or non-positive cells are collected into one
// SchemaError.
func (p *PriceMatrix) LoadPrices(_ context.Context) (*domain.PriceSeries, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("opening price matrix: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, &domain.SchemaError{
			Problems: []string{fmt.Sprintf("price matrix: unreadable header: %v", err)},
		}
	}

	type periodColumn struct {
		idx    int
		period domain.Period
	}

	codeIdx := -1
	var periods []periodColumn
	var problems []string
	for i, col := range header {
		name := strings.TrimSpace(col)
		if name == "Item_Code" {
			codeIdx = i
			continue
		}
		if name == "Item_Name" {
			continue
		}
		if period, err := domain.ParsePeriod(name); err == nil {
			periods = append(periods, periodColumn{idx: i, period: period})
		}
	}

	if codeIdx < 0 {
		problems = append(problems, "price matrix: missing required column Item_Code")
	}
	if len(periods) == 0 {
		problems = append(problems, "price matrix: no period columns found")
	}
	if len(problems) > 0 {
		return nil, &domain.SchemaError{Problems: problems}
	}

	series := domain.NewPriceSeries()
	group := domain.DefaultGroupKey
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			problems = append(problems, fmt.Sprintf("price matrix: row %d: %v", row, err))
			continue
		}

		code := strings.TrimSpace(record[codeIdx])
		if code == "" {
			problems = append(problems, fmt.Sprintf("price matrix: row %d: empty item code", row))
			continue
		}

		for _, pc := range periods {
			cell := strings.TrimSpace(record[pc.idx])
			if cell == "" {
				continue
			}
			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				problems = append(problems,
					fmt.Sprintf("price matrix: row %d, %s: %q is not a number", row, pc.period, cell))
				continue
			}
			if value <= 0 {
				problems = append(problems,
					fmt.Sprintf("price matrix: row %d, %s: price relative %v must be positive", row, pc.period, value))
				continue
			}
			series.Add(group, pc.period, code, value*relativeScale)
		}
	}

	if len(problems) > 0 {
		return nil, &domain.SchemaError{Problems: problems}
	}

	logger.Info("Loaded price matrix %s: %d items, %d periods", p.path, len(series.Items()), len(series.Periods(group)))
	return series, nil
}
