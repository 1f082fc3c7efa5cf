package engine

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
)

// Sink receives generated rows in batches, in the column order of the
// table plan.
type Sink interface {
	WriteBatch(table string, columns []string, rows [][]interface{}) error
	Close() error
}

// JSONLinesSink writes one {"table": ..., "row": {...}} object per line.
type JSONLinesSink struct {
	w   *bufio.Writer
	enc *json.Encoder
}

func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	bw := bufio.NewWriter(w)
	return &JSONLinesSink{w: bw, enc: json.NewEncoder(bw)}
}

type jsonLine struct {
	Table string                 `json:"table"`
	Row   map[string]interface{} `json:"row"`
}

func (s *JSONLinesSink) WriteBatch(table string, columns []string, rows [][]interface{}) error {
	for _, values := range rows {
		line := jsonLine{Table: table, Row: make(map[string]interface{}, len(columns))}
		for i, col := range columns {
			line.Row[col] = values[i]
		}
		if err := s.enc.Encode(line); err != nil {
			return err
		}
	}
	return s.w.Flush()
}

func (s *JSONLinesSink) Close() error {
	return s.w.Flush()
}

// CountingSink discards rows and keeps per-table counts. When Keep is set
// it also retains the rows.
type CountingSink struct {
	Keep bool

	mu     sync.Mutex
	counts map[string]int64
	rows   map[string][][]interface{}
}

func NewCountingSink(keep bool) *CountingSink {
	return &CountingSink{
		Keep:   keep,
		counts: make(map[string]int64),
		rows:   make(map[string][][]interface{}),
	}
}

func (s *CountingSink) WriteBatch(table string, columns []string, rows [][]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[table] += int64(len(rows))
	if s.Keep {
		for _, r := range rows {
			s.rows[table] = append(s.rows[table], append([]interface{}(nil), r...))
		}
	}
	return nil
}

func (s *CountingSink) Close() error { return nil }

func (s *CountingSink) Count(table string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[table]
}

func (s *CountingSink) Rows(table string) [][]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[table]
}
