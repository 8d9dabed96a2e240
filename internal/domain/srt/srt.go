// Package srt renders and parses SubRip subtitle documents.
package srt

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"subtran/internal/types"
)

// Render formats cues as a SubRip document: numbered blocks separated by
// blank lines, timecodes as HH:MM:SS,mmm.
func Render(cues []types.Cue) string {
	var b strings.Builder
	for _, c := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", c.Index, Timecode(c.Start), Timecode(c.End), c.Text)
	}
	return b.String()
}

// Timecode formats milliseconds as HH:MM:SS,mmm. Hours are not wrapped, so
// streams longer than a day stay monotonic.
func Timecode(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3600000
	m := ms / 60000 % 60
	s := ms / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}

// ParseTimecode reads an HH:MM:SS,mmm timecode back into milliseconds.
func ParseTimecode(s string) (int64, error) {
	s = strings.TrimSpace(s)
	main, msPart, ok := strings.Cut(s, ",")
	if !ok {
		return 0, fmt.Errorf("srt: invalid timecode %q", s)
	}
	parts := strings.Split(main, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("srt: invalid timecode %q", s)
	}
	var fields [4]int64
	for i, p := range append(parts, msPart) {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("srt: invalid timecode %q", s)
		}
		fields[i] = v
	}
	return fields[0]*3600000 + fields[1]*60000 + fields[2]*1000 + fields[3], nil
}

// Parse reads a SubRip document into cues. Used to check that a translated
// document kept the original structure; tolerant of CRLF line endings and
// multi-line cue text.
func Parse(text string) ([]types.Cue, error) {
	var cues []types.Cue
	var cur types.Cue
	step := 0

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		switch step {
		case 0:
			if strings.TrimSpace(line) == "" {
				continue
			}
			idx, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil {
				return nil, fmt.Errorf("srt: expected cue index, got %q", line)
			}
			cur.Index = idx
			step = 1
		case 1:
			from, to, ok := strings.Cut(line, " --> ")
			if !ok {
				return nil, fmt.Errorf("srt: expected timecode line, got %q", line)
			}
			start, err := ParseTimecode(from)
			if err != nil {
				return nil, err
			}
			end, err := ParseTimecode(to)
			if err != nil {
				return nil, err
			}
			cur.Start, cur.End = start, end
			step = 2
		case 2:
			if strings.TrimSpace(line) == "" {
				cues = append(cues, cur)
				cur = types.Cue{}
				step = 0
				continue
			}
			if cur.Text != "" {
				cur.Text += "\n"
			}
			cur.Text += line
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	// Last block may not be followed by a blank line.
	if step == 2 {
		cues = append(cues, cur)
	} else if step == 1 {
		return nil, fmt.Errorf("srt: cue %d has no timecode line", cur.Index)
	}
	return cues, nil
}
