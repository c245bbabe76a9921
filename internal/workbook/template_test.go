package workbook

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestTemplateContainsAllSheets(t *testing.T) {
	data, err := TemplateBytes()
	if err != nil {
		t.Fatalf("build template: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen template: %v", err)
	}
	defer f.Close()

	want := []string{"courses", "instructors", "availability", "rooms", "enrollments", "students", "building_travel", "settings"}
	if got := f.GetSheetList(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sheets = %v, want %v", got, want)
	}
}

func TestTemplateHeaderRows(t *testing.T) {
	data, err := TemplateBytes()
	if err != nil {
		t.Fatalf("build template: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen template: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("courses")
	if err != nil {
		t.Fatalf("courses rows: %v", err)
	}
	wantHeader := []string{"course_id", "title", "instructor_id", "sessions_per_week", "session_duration_min", "equipment_required"}
	if len(rows) == 0 || !reflect.DeepEqual(rows[0], wantHeader) {
		t.Fatalf("courses header = %v, want %v", rows, wantHeader)
	}

	roomRows, err := f.GetRows("rooms")
	if err != nil {
		t.Fatalf("rooms rows: %v", err)
	}
	if roomRows[0][0] != "room_id" || roomRows[0][3] != "equipment" {
		t.Fatalf("rooms header = %v", roomRows[0])
	}
}

func TestTemplateSeedsSettings(t *testing.T) {
	data, err := TemplateBytes()
	if err != nil {
		t.Fatalf("build template: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen template: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("settings")
	if err != nil {
		t.Fatalf("settings rows: %v", err)
	}

	got := map[string]string{}
	for _, r := range rows[1:] {
		if len(r) >= 2 {
			got[r[0]] = r[1]
		}
	}
	if got["DAYS"] != "Sat,Sun,Mon,Tue,Wed,Thu" {
		t.Errorf("DAYS = %q", got["DAYS"])
	}
	if got["BLOCK_MIN"] != "90" {
		t.Errorf("BLOCK_MIN = %q", got["BLOCK_MIN"])
	}
	if got["START_DAY"] != "08:00" || got["END_DAY"] != "19:00" {
		t.Errorf("day bounds = %q..%q", got["START_DAY"], got["END_DAY"])
	}
}
