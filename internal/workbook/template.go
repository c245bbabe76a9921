// Package workbook builds the input template workbook for the scheduling
// service. The sheet and column layout follows the service's expected
// upload format; this package never parses submitted files.
package workbook

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TemplateFilename is the suggested name for the generated template.
const TemplateFilename = "timetable_input.xlsx"

// sheetColumns lists every input sheet with its header row, in the order
// the service reads them. students and building_travel are optional for
// the service but included so users see the full format.
var sheetColumns = []struct {
	name    string
	headers []string
}{
	{"courses", []string{"course_id", "title", "instructor_id", "sessions_per_week", "session_duration_min", "equipment_required"}},
	{"instructors", []string{"instructor_id", "name", "preferred_days", "preferred_start", "preferred_end"}},
	{"availability", []string{"instructor_id", "day", "available_start", "available_end"}},
	{"rooms", []string{"room_id", "building", "capacity", "equipment"}},
	{"enrollments", []string{"course_id", "student_id"}},
	{"students", []string{"student_id", "name"}},
	{"building_travel", []string{"from", "to", "minutes"}},
	{"settings", []string{"key", "value"}},
}

// defaultSettings seeds the settings sheet with the service's defaults so
// the template schedules out of the box.
var defaultSettings = [][2]string{
	{"DAYS", "Sat,Sun,Mon,Tue,Wed,Thu"},
	{"START_DAY", "08:00"},
	{"END_DAY", "19:00"},
	{"BLOCK_MIN", "90"},
}

// NewTemplate builds an empty input workbook with all expected sheets and
// header rows.
func NewTemplate() (*excelize.File, error) {
	f := excelize.NewFile()

	for i, sheet := range sheetColumns {
		if i == 0 {
			// rename the default sheet instead of leaving "Sheet1" behind
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return nil, err
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				return nil, err
			}
		}
		for col, header := range sheet.headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet.name, cell, header); err != nil {
				return nil, err
			}
		}
	}

	for row, kv := range defaultSettings {
		if err := f.SetCellValue("settings", fmt.Sprintf("A%d", row+2), kv[0]); err != nil {
			return nil, err
		}
		if err := f.SetCellValue("settings", fmt.Sprintf("B%d", row+2), kv[1]); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// TemplateBytes renders the template workbook to xlsx bytes.
func TemplateBytes() ([]byte, error) {
	f, err := NewTemplate()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SheetNames returns the template's sheet names in order.
func SheetNames() []string {
	names := make([]string, 0, len(sheetColumns))
	for _, s := range sheetColumns {
		names = append(names, s.name)
	}
	return names
}
