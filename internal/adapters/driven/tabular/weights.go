package tabular

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pricelab/cpix-cli/internal/core/domain"
	"github.com/pricelab/cpix-cli/internal/core/ports/driven"
	"github.com/pricelab/cpix-cli/internal/logger"
)

// Weight table file names inside the weights directory.
const (
	DivisionsFile  = "divisions.csv"
	GroupsFile     = "groups.csv"
	ClassesFile    = "classes.csv"
	SubclassesFile = "subclasses.csv"
	ItemsFile      = "items.csv"
)

// weightColumn is the column every weight table must carry.
const weightColumn = "Weight"

// Ensure WeightsDir implements the interface.
var _ driven.WeightSource = (*WeightsDir)(nil)

// tableSpec fixes one tier's file name and required columns. Joins between
// tiers use the parent code column; divisions have none.
type tableSpec struct {
	file      string
	level     domain.Level
	codeCol   string
	nameCol   string
	parentCol string
	optional  bool
}

var tableSpecs = []tableSpec{
	{file: DivisionsFile, level: domain.LevelDivision, codeCol: "Division_Code", nameCol: "Division_Name"},
	{file: GroupsFile, level: domain.LevelGroup, codeCol: "Group_Code", nameCol: "Group_Name", parentCol: "Division_Code"},
	{file: ClassesFile, level: domain.LevelClass, codeCol: "Class_Code", nameCol: "Class_Name", parentCol: "Group_Code"},
	{file: SubclassesFile, level: domain.LevelSubclass, codeCol: "Subclass_Code", nameCol: "Subclass_Name", parentCol: "Class_Code", optional: true},
	{file: ItemsFile, level: domain.LevelItem, codeCol: "Item_Code", nameCol: "Item_Name", parentCol: "Subclass_Code"},
}

// WeightsDir reads the weight tables from a directory holding one CSV per
// tier. The subclasses file is optional; when it is absent the items table
// may carry Class_Code instead of Subclass_Code, or no parent column at all,
// in which case the hierarchy builder joins items to classes by code prefix.
type WeightsDir struct {
	dir string
}

// NewWeightsDir creates a weight source for the given directory.
func NewWeightsDir(dir string) *WeightsDir {
	return &WeightsDir{dir: dir}
}

// LoadWeights reads every tier's table. Schema problems across all files are
// collected into one SchemaError rather than failing on the first.
func (w *WeightsDir) LoadWeights(_ context.Context) (domain.WeightTables, error) {
	var (
		tables   domain.WeightTables
		problems []string
	)

	for _, spec := range tableSpecs {
		table, probs := w.loadTable(spec)
		problems = append(problems, probs...)
		if table == nil {
			continue
		}
		switch spec.level {
		case domain.LevelDivision:
			tables.Divisions = table
		case domain.LevelGroup:
			tables.Groups = table
		case domain.LevelClass:
			tables.Classes = table
		case domain.LevelSubclass:
			tables.Subclasses = table
		case domain.LevelItem:
			tables.Items = table
		}
	}

	if len(problems) > 0 {
		return domain.WeightTables{}, &domain.SchemaError{Problems: problems}
	}

	logger.Info("Loaded weight tables from %s: %d divisions, %d groups, %d classes, %d items",
		w.dir, len(tables.Divisions.Rows), len(tables.Groups.Rows),
		len(tables.Classes.Rows), len(tables.Items.Rows))
	return tables, nil
}

// loadTable reads one tier's CSV. Returns a nil table when the file is
// missing or its header is unusable; row-level problems still produce a
// table holding the parseable rows.
func (w *WeightsDir) loadTable(spec tableSpec) (*domain.WeightTable, []string) {
	path := filepath.Join(w.dir, spec.file)

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			if spec.optional {
				return nil, nil
			}
			return nil, []string{fmt.Sprintf("%s: required table is missing", spec.file)}
		}
		return nil, []string{fmt.Sprintf("%s: %v", spec.file, err)}
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, []string{fmt.Sprintf("%s: unreadable header: %v", spec.file, err)}
	}

	cols := columnIndex(header)
	var problems []string

	codeIdx, ok := cols[spec.codeCol]
	if !ok {
		problems = append(problems, fmt.Sprintf("%s: missing required column %s", spec.file, spec.codeCol))
	}
	nameIdx, ok := cols[spec.nameCol]
	if !ok {
		problems = append(problems, fmt.Sprintf("%s: missing required column %s", spec.file, spec.nameCol))
	}
	weightIdx, ok := cols[weightColumn]
	if !ok {
		problems = append(problems, fmt.Sprintf("%s: missing required column %s", spec.file, weightColumn))
	}

	parentIdx := -1
	if spec.parentCol != "" {
		if idx, ok := cols[spec.parentCol]; ok {
			parentIdx = idx
		} else if spec.level == domain.LevelItem {
			// Items may join to classes directly in a four-tier dataset.
			if idx, ok := cols["Class_Code"]; ok {
				parentIdx = idx
			}
		} else {
			problems = append(problems, fmt.Sprintf("%s: missing required column %s", spec.file, spec.parentCol))
		}
	}

	if len(problems) > 0 {
		return nil, problems
	}

	table := &domain.WeightTable{Level: spec.level}
	row := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: row %d: %v", spec.file, row, err))
			continue
		}

		weightRaw := strings.TrimSpace(record[weightIdx])
		weight, err := strconv.ParseFloat(weightRaw, 64)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: row %d: weight %q is not a number", spec.file, row, weightRaw))
			continue
		}

		wr := domain.WeightRow{
			Code:   strings.TrimSpace(record[codeIdx]),
			Name:   strings.TrimSpace(record[nameIdx]),
			Weight: weight,
		}
		if parentIdx >= 0 {
			wr.ParentCode = strings.TrimSpace(record[parentIdx])
		}
		table.Rows = append(table.Rows, wr)
	}

	return table, problems
}

// columnIndex maps trimmed header names to their positions. The first
// occurrence wins when a header repeats.
func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}
	return cols
}
