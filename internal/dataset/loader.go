package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"callpal-go/internal/types"
)

// TranscriptSeparator splits transcript cells into lines.
const TranscriptSeparator = "|"

// column identifies a scenario field; variant is "calm", "power" or "".
type column struct {
	variant string
	field   string
}

// LoadXLSX reads scenarios from the first sheet of a workbook with one
// scenario per row. Columns are found by header heuristics so
// "Calm Opening", "calm_opening" and "Opening (calm)" all work.
func LoadXLSX(path string) (*Catalog, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) <= 1 {
		return nil, fmt.Errorf("no data rows")
	}

	idx := detectColumns(rows[0])
	if _, ok := idx[column{field: "id"}]; !ok {
		return nil, fmt.Errorf("no id column in header %v", rows[0])
	}

	var out []Scenario
	for _, r := range rows[1:] {
		cell := func(variant, field string) string {
			i, ok := idx[column{variant, field}]
			if !ok || i >= len(r) {
				return ""
			}
			return strings.TrimSpace(r[i])
		}
		s := Scenario{
			ID:    cell("", "id"),
			Door:  types.Door(strings.ToLower(cell("", "door"))),
			Name:  cell("", "name"),
			Icon:  cell("", "icon"),
			Input: cell("", "input"),
			ExpectedIntent: types.Intent{
				Intent:             cell("", "intent"),
				Door:               types.Door(strings.ToLower(cell("", "door"))),
				ProviderName:       cell("", "provider_name"),
				ProviderPhone:      cell("", "provider_phone"),
				Reason:             cell("", "reason"),
				TimePreference:     cell("", "time_preference"),
				PrescriptionNumber: cell("", "prescription_number"),
				UserName:           cell("", "user_name"),
			},
		}
		// skip blank rows quietly
		if s.ID == "" {
			continue
		}
		for _, v := range []string{"calm", "power"} {
			twice, _ := strconv.ParseBool(cell(v, "confirm_twice"))
			variant := Variant{
				Script: Script{
					Opening:      cell(v, "opening"),
					ConfirmLine:  cell(v, "confirm_line"),
					Closing:      cell(v, "closing"),
					Pacing:       cell(v, "pacing"),
					ConfirmTwice: twice,
				},
				Transcript: splitTranscript(cell(v, "transcript")),
				Summary:    cell(v, "summary"),
			}
			if v == "calm" {
				s.Calm = variant
			} else {
				s.Power = variant
			}
		}
		out = append(out, s)
	}
	return &Catalog{scenarios: out}, nil
}

// detectColumns maps each recognised header to its index; the first
// matching header wins.
func detectColumns(header []string) map[column]int {
	idx := map[column]int{}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		l = strings.NewReplacer("_", " ", "-", " ", "(", " ", ")", " ").Replace(l)

		variant := ""
		switch {
		case strings.Contains(l, "calm"):
			variant = "calm"
		case strings.Contains(l, "power"):
			variant = "power"
		}

		field := ""
		if variant != "" {
			switch {
			case strings.Contains(l, "opening") || strings.Contains(l, "greeting"):
				field = "opening"
			case strings.Contains(l, "confirm") && (strings.Contains(l, "twice") || strings.Contains(l, "double")):
				field = "confirm_twice"
			case strings.Contains(l, "confirm"):
				field = "confirm_line"
			case strings.Contains(l, "closing") || strings.Contains(l, "goodbye"):
				field = "closing"
			case strings.Contains(l, "pac"):
				field = "pacing"
			case strings.Contains(l, "transcript"):
				field = "transcript"
			case strings.Contains(l, "summary"):
				field = "summary"
			}
		} else {
			switch {
			case l == "id" || strings.Contains(l, "scenario id"):
				field = "id"
			case strings.Contains(l, "door") || strings.Contains(l, "category"):
				field = "door"
			case strings.Contains(l, "provider") && strings.Contains(l, "phone"):
				field = "provider_phone"
			case strings.Contains(l, "provider"):
				field = "provider_name"
			case strings.Contains(l, "user") && strings.Contains(l, "name"):
				field = "user_name"
			case strings.Contains(l, "prescription") || strings.Contains(l, "rx"):
				field = "prescription_number"
			case strings.Contains(l, "time"):
				field = "time_preference"
			case strings.Contains(l, "reason"):
				field = "reason"
			case strings.Contains(l, "intent"):
				field = "intent"
			case strings.Contains(l, "icon") || strings.Contains(l, "emoji"):
				field = "icon"
			case strings.Contains(l, "input") || strings.Contains(l, "message") || strings.Contains(l, "request"):
				field = "input"
			case strings.Contains(l, "name"):
				field = "name"
			}
		}
		if field == "" {
			continue
		}
		c := column{variant, field}
		if _, seen := idx[c]; !seen {
			idx[c] = i
		}
	}
	return idx
}

func splitTranscript(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, TranscriptSeparator) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
