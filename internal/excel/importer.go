package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/hifzbot/internal/database"
	"github.com/example/hifzbot/internal/quran"
	"github.com/example/hifzbot/pkg/models"
)

// ImportConfig defines the ayah catalog import configuration
type ImportConfig struct {
	FilePath          string // Path to the Excel or CSV file
	SurahColumn       string // Column with the surah number
	AyahColumn        string // Column with the ayah number within the surah
	TextColumn        string // Column with the Arabic text
	TranslationColumn string // Column with the translation
	SheetName         string // Name of the sheet to import
	StartRow          int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		SurahColumn:       "A",
		AyahColumn:        "B",
		TextColumn:        "C",
		TranslationColumn: "D",
		SheetName:         "Sheet1",
		StartRow:          2, // Skip the header row
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportAyahs imports the ayah text catalog from an Excel or CSV file
func ImportAyahs(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(config)
	}
	return importFromExcel(config)
}

// importFromExcel imports the catalog from an Excel file
func importFromExcel(config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %v", config.SheetName, err)
	}

	columns := map[string]int{
		config.SurahColumn:       -1,
		config.AyahColumn:        -1,
		config.TextColumn:        -1,
		config.TranslationColumn: -1,
	}
	for name := range columns {
		idx, err := excelize.ColumnNameToNumber(name)
		if err != nil {
			return nil, fmt.Errorf("invalid column name %s: %v", name, err)
		}
		columns[name] = idx - 1
	}

	result := &ImportResult{Errors: make([]string, 0)}
	repo := database.NewAyahRepository()

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++

		get := func(col string) string {
			idx := columns[col]
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		if err := importRow(repo, get(config.SurahColumn), get(config.AyahColumn),
			get(config.TextColumn), get(config.TranslationColumn)); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

// importFromCSV imports the catalog from a CSV file
func importFromCSV(config ImportConfig) (*ImportResult, error) {
	f, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	result := &ImportResult{Errors: make([]string, 0)}
	repo := database.NewAyahRepository()

	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %v", err)
		}
		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		result.TotalProcessed++

		get := func(idx int) string {
			if idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		// CSV imports use fixed positional columns: surah, ayah, text, translation.
		if err := importRow(repo, get(0), get(1), get(2), get(3)); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		result.Imported++
	}

	return result, nil
}

// importRow validates one catalog row against the mushaf layout and
// persists it
func importRow(repo *database.AyahRepository, surahStr, ayahStr, text, translation string) error {
	if text == "" {
		return fmt.Errorf("empty ayah text")
	}
	surahNumber, err := strconv.Atoi(surahStr)
	if err != nil {
		return fmt.Errorf("invalid surah number %q", surahStr)
	}
	ayahNumber, err := strconv.Atoi(ayahStr)
	if err != nil {
		return fmt.Errorf("invalid ayah number %q", ayahStr)
	}

	id := quran.AyahID(surahNumber, ayahNumber)
	if id == 0 {
		return fmt.Errorf("no such ayah: surah %d ayah %d", surahNumber, ayahNumber)
	}

	return repo.CreateOrUpdate(&models.Ayah{
		ID:          id,
		SurahNumber: surahNumber,
		AyahNumber:  ayahNumber,
		Text:        text,
		Translation: translation,
	})
}
