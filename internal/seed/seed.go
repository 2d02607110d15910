// Package seed provides the initial campus inventory and submission log
// loaded into the remote repository at startup.
//
// Seed files are hand-maintained exports, so the loader is lenient: numbers
// and booleans may be quoted, and dates may be full RFC 3339 timestamps or
// bare calendar dates.
package seed

import (
	"embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/cuems/aedkeeper/internal/aed"
	"github.com/cuems/aedkeeper/internal/remote"
)

//go:embed data/inventory.json data/logs.json
var embedded embed.FS

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// Default returns the embedded campus seed.
func Default() (remote.Seed, error) {
	inv, err := embedded.ReadFile("data/inventory.json")
	if err != nil {
		return remote.Seed{}, fmt.Errorf("read embedded inventory: %w", err)
	}
	logs, err := embedded.ReadFile("data/logs.json")
	if err != nil {
		return remote.Seed{}, fmt.Errorf("read embedded logs: %w", err)
	}

	records, err := ParseInventory(inv)
	if err != nil {
		return remote.Seed{}, err
	}
	entries, err := ParseLogs(logs)
	if err != nil {
		return remote.Seed{}, err
	}
	return remote.Seed{Inventory: records, Logs: entries}, nil
}

// Load returns the seed at path, or the embedded seed when path is empty.
// The file holds either an object with "inventory" and "logs" arrays or a
// bare inventory array.
func Load(path string) (remote.Seed, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return remote.Seed{}, fmt.Errorf("read seed %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a seed document.
func Parse(data []byte) (remote.Seed, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return remote.Seed{}, fmt.Errorf("parse seed: %w", err)
	}

	var seed remote.Seed
	switch v.Type() {
	case fastjson.TypeArray:
		seed.Inventory, err = inventoryFrom(v)
		return seed, err
	case fastjson.TypeObject:
		if inv := v.Get("inventory"); inv != nil {
			if seed.Inventory, err = inventoryFrom(inv); err != nil {
				return remote.Seed{}, err
			}
		}
		if logs := v.Get("logs"); logs != nil {
			if seed.Logs, err = logsFrom(logs); err != nil {
				return remote.Seed{}, err
			}
		}
		return seed, nil
	default:
		return remote.Seed{}, fmt.Errorf("parse seed: expected object or array, got %s", v.Type())
	}
}

// ParseInventory decodes an array of AED records.
func ParseInventory(data []byte) ([]aed.Record, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}
	return inventoryFrom(v)
}

// ParseLogs decodes an array of submission log entries.
func ParseLogs(data []byte) ([]aed.LogEntry, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse logs: %w", err)
	}
	return logsFrom(v)
}

func inventoryFrom(v *fastjson.Value) ([]aed.Record, error) {
	items, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}

	records := make([]aed.Record, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		f := &fields{v: item, where: fmt.Sprintf("inventory[%d]", i)}
		r := aed.Record{
			ID:                          f.integer("id"),
			Title:                       f.str("Title"),
			BuildingName:                f.str("BuildingName"),
			BuildingCode:                f.str("BuildingCode"),
			Floor:                       f.str("Floor"),
			SpecificLocationDescription: f.str("SpecificLocationDescription"),
			Latitude:                    f.number("Latitude"),
			Longitude:                   f.number("Longitude"),
			PubliclyAccessible:          f.boolean("PubliclyAccessible"),
			PhotoOfLocation:             f.str("PhotoOfLocation"),
			Manufacturer:                f.str("Manufacturer"),
			Model:                       f.str("Model"),
			SerialNumber:                f.str("SerialNumber"),
			BatteryInstallDate:          f.date("BatteryInstallDate"),
			BatteryLifespanMonths:       f.integer("BatteryLifespanMonths"),
			CalculatedBatteryExpiryDate: f.date("CalculatedBatteryExpiryDate"),
			PadsInstallDate:             f.date("PadsInstallDate"),
			PadsLifespanMonths:          f.integer("PadsLifespanMonths"),
			PadsType:                    f.str("PadsType"),
			CalculatedPadsExpiryDate:    f.date("CalculatedPadsExpiryDate"),
			LastMonthlyCheckDate:        f.date("LastMonthlyCheckDate"),
			LastMonthlyCheckBy:          f.str("LastMonthlyCheckBy"),
			LastMonthlyCheckStatus:      f.str("LastMonthlyCheckStatus"),
			LastMonthlyCheckNotes:       f.str("LastMonthlyCheckNotes"),
			Notes:                       f.str("Notes"),
			Created:                     f.date("Created"),
			Modified:                    f.date("Modified"),
		}
		if f.err != nil {
			return nil, f.err
		}
		if r.Title == "" {
			return nil, fmt.Errorf("%s: Title is required", f.where)
		}
		if seen[r.Title] {
			return nil, fmt.Errorf("%s: duplicate Title %q", f.where, r.Title)
		}
		seen[r.Title] = true

		r.ApplyDefaults()
		r.NormalizeExpiry()
		records = append(records, r)
	}

	// Records exported without an id get one after the highest seen.
	next := aed.MaxID(records)
	for i := range records {
		if records[i].ID == 0 {
			next++
			records[i].ID = next
		}
	}
	return records, nil
}

func logsFrom(v *fastjson.Value) ([]aed.LogEntry, error) {
	items, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("logs: %w", err)
	}

	entries := make([]aed.LogEntry, 0, len(items))
	for i, item := range items {
		f := &fields{v: item, where: fmt.Sprintf("logs[%d]", i)}
		e := aed.LogEntry{
			LogID:               f.integer("logId"),
			Title:               f.str("Title"),
			AedLinkTitle:        f.str("AedLinkTitle"),
			SubmissionTimestamp: f.date("SubmissionTimestamp"),
			SubmittedBy:         f.str("SubmittedBy"),
			SubmissionType:      f.str("SubmissionType"),
			SummaryOfAction:     f.str("SummaryOfAction"),
			AppVersion:          f.str("AppVersion"),
			Created:             f.date("Created"),
			Modified:            f.date("Modified"),
		}
		if f.err != nil {
			return nil, f.err
		}
		if e.AppVersion == "" {
			e.AppVersion = aed.AppVersion
		}
		entries = append(entries, e)
	}

	next := aed.MaxLogID(entries)
	for i := range entries {
		if entries[i].LogID == 0 {
			next++
			entries[i].LogID = next
		}
	}
	return entries, nil
}

// fields reads loosely typed values from one object, keeping the first error.
type fields struct {
	v     *fastjson.Value
	where string
	err   error
}

func (f *fields) fail(key string, err error) {
	if f.err == nil {
		f.err = fmt.Errorf("%s: field %s: %w", f.where, key, err)
	}
}

func (f *fields) get(key string) *fastjson.Value {
	v := f.v.Get(key)
	if v == nil || v.Type() == fastjson.TypeNull {
		return nil
	}
	return v
}

func (f *fields) str(key string) string {
	v := f.get(key)
	if v == nil {
		return ""
	}
	if v.Type() == fastjson.TypeString {
		return string(v.GetStringBytes())
	}
	// Numbers and booleans keep their literal text.
	return strings.Trim(v.String(), `"`)
}

func (f *fields) integer(key string) int {
	v := f.get(key)
	if v == nil {
		return 0
	}
	switch v.Type() {
	case fastjson.TypeNumber:
		n, err := v.Int()
		if err != nil {
			f.fail(key, err)
		}
		return n
	case fastjson.TypeString:
		s := strings.TrimSpace(string(v.GetStringBytes()))
		if s == "" {
			return 0
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			f.fail(key, err)
		}
		return n
	default:
		f.fail(key, fmt.Errorf("expected integer, got %s", v.Type()))
		return 0
	}
}

func (f *fields) number(key string) float64 {
	v := f.get(key)
	if v == nil {
		return 0
	}
	switch v.Type() {
	case fastjson.TypeNumber:
		n, err := v.Float64()
		if err != nil {
			f.fail(key, err)
		}
		return n
	case fastjson.TypeString:
		s := strings.TrimSpace(string(v.GetStringBytes()))
		if s == "" {
			return 0
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			f.fail(key, err)
		}
		return n
	default:
		f.fail(key, fmt.Errorf("expected number, got %s", v.Type()))
		return 0
	}
}

func (f *fields) boolean(key string) bool {
	v := f.get(key)
	if v == nil {
		return false
	}
	switch v.Type() {
	case fastjson.TypeTrue:
		return true
	case fastjson.TypeFalse:
		return false
	case fastjson.TypeNumber:
		return v.GetInt() != 0
	case fastjson.TypeString:
		switch strings.ToLower(strings.TrimSpace(string(v.GetStringBytes()))) {
		case "true", "yes", "y", "1":
			return true
		case "false", "no", "n", "0", "":
			return false
		}
	}
	f.fail(key, fmt.Errorf("not a boolean: %s", v.String()))
	return false
}

func (f *fields) date(key string) time.Time {
	s := f.str(key)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	f.fail(key, fmt.Errorf("unrecognized date %q", s))
	return time.Time{}
}
