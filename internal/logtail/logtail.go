package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/valyala/fastjson"
)

// Read returns at most maxLines from the end of the file at path. A maxLines
// of zero or less returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Field is one extra key/value pair of a structured log line.
type Field struct {
	Key   string
	Value string
}

// Entry is a decoded zerolog JSON line.
type Entry struct {
	Time      time.Time
	Level     string // upper case, e.g. INFO
	Component string
	Message   string
	Error     string
	Fields    []Field // remaining keys, in file order
}

var reservedKeys = map[string]bool{
	"time": true, "level": true, "component": true, "message": true, "error": true,
}

// Parse decodes one JSON log line. Lines that are not JSON objects come back
// as a bare message with ok set to false.
func Parse(line string) (Entry, bool) {
	var p fastjson.Parser
	v, err := p.Parse(line)
	if err != nil || v.Type() != fastjson.TypeObject {
		return Entry{Message: line}, false
	}

	entry := Entry{
		Level:     strings.ToUpper(string(v.GetStringBytes("level"))),
		Component: string(v.GetStringBytes("component")),
		Message:   string(v.GetStringBytes("message")),
		Error:     string(v.GetStringBytes("error")),
	}
	if raw := string(v.GetStringBytes("time")); raw != "" {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			entry.Time = ts
		}
	}

	obj, _ := v.Object()
	obj.Visit(func(key []byte, val *fastjson.Value) {
		k := string(key)
		if reservedKeys[k] {
			return
		}
		value := val.String()
		if val.Type() == fastjson.TypeString {
			value = string(val.GetStringBytes())
		}
		entry.Fields = append(entry.Fields, Field{Key: k, Value: value})
	})
	return entry, true
}

// Format renders an entry as a single display line:
//
//	2025-06-15 08:00:00 INFO [datalayer] – offline data initialized replayed=2
func Format(e Entry) string {
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, e.Time.In(time.Local).Format("2006-01-02 15:04:05"))
	}
	if e.Level != "" {
		parts = append(parts, e.Level)
	}
	if e.Component != "" {
		parts = append(parts, "["+e.Component+"]")
	}
	header := strings.Join(parts, " ")
	if header == "" {
		return e.Message
	}

	var b strings.Builder
	b.WriteString(header)
	if e.Message != "" {
		b.WriteString(" – ")
		b.WriteString(e.Message)
	}
	for _, f := range e.Fields {
		b.WriteString(" ")
		b.WriteString(f.Key)
		b.WriteString("=")
		b.WriteString(f.Value)
	}
	if e.Error != "" {
		b.WriteString(" error=")
		b.WriteString(e.Error)
	}
	return b.String()
}

// Tail reads the last maxLines of a zerolog JSON file and renders each one
// with Format.
func Tail(path string, maxLines int) ([]string, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		entry, _ := Parse(line)
		out = append(out, Format(entry))
	}
	return out, nil
}
