// This file is part of IECBridge.
//
// IECBridge is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// IECBridge is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with IECBridge.  If not, see <https://www.gnu.org/licenses/>.

package logger

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Entry represents a single line/entry in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string

	// the number of times this entry has been repeated in succession
	repeated int
}

func (e Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// Logger is a bounded list of tagged entries. Most code should use the
// package level functions, which address a central instance, but independent
// instances can be created for testing purposes.
type Logger struct {
	maxEntries int
	entries    []Entry
	echo       io.Writer
}

// NewLogger is the preferred method of initialisation for the Logger type.
func NewLogger(maxEntries int) *Logger {
	return &Logger{
		maxEntries: maxEntries,
	}
}

// Log adds an entry to the logger. The detail argument can be a string, an
// error or a fmt.Stringer. Other types are formatted with the %v verb.
func (l *Logger) Log(perm Permission, tag string, detail any) {
	if !(perm == Allow || perm.AllowLogging()) {
		return
	}

	var s string
	switch d := detail.(type) {
	case string:
		s = d
	case error:
		s = d.Error()
	case fmt.Stringer:
		s = d.String()
	default:
		s = fmt.Sprintf("%v", d)
	}

	// newlines would break the one-entry-per-line rule
	tag = strings.ReplaceAll(tag, "\n", "")
	s = strings.ReplaceAll(s, "\n", "")

	// collapse succesive identical entries
	if len(l.entries) > 0 {
		e := &l.entries[len(l.entries)-1]
		if e.Tag == tag && e.Detail == s {
			e.repeated++
			e.Timestamp = time.Now()
			if l.echo != nil {
				io.WriteString(l.echo, e.String())
			}
			return
		}
	}

	l.entries = append(l.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: s})

	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}

	if l.echo != nil {
		io.WriteString(l.echo, l.entries[len(l.entries)-1].String())
	}
}

// Logf adds a formatted entry to the logger.
func (l *Logger) Logf(perm Permission, tag string, format string, args ...any) {
	l.Log(perm, tag, fmt.Sprintf(format, args...))
}

// Clear all entries from the logger.
func (l *Logger) Clear() {
	l.entries = l.entries[:0]
}

// Write the contents of the logger to the io.Writer.
func (l *Logger) Write(output io.Writer) {
	if output == nil {
		return
	}
	for _, e := range l.entries {
		io.WriteString(output, e.String())
	}
}

// Tail writes the last number of entries to the io.Writer.
func (l *Logger) Tail(output io.Writer, number int) {
	if output == nil {
		return
	}
	if number > len(l.entries) {
		number = len(l.entries)
	}
	for _, e := range l.entries[len(l.entries)-number:] {
		io.WriteString(output, e.String())
	}
}

// SetEcho causes new entries to be written to the io.Writer as they arrive.
// A nil writer turns echoing off.
func (l *Logger) SetEcho(output io.Writer) {
	l.echo = output
}

// BorrowLog gives the provided function access to the list of entries.
func (l *Logger) BorrowLog(f func([]Entry)) {
	f(l.entries)
}
